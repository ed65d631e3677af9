package update_slot_template

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// UpdateSlotTemplateRequest HTTP request model
type UpdateSlotTemplateRequest struct {
	DurationMinutes    int `json:"durationMinutes"`
	BufferMinutes      int `json:"bufferMinutes"`
	AdvanceBookingDays int `json:"advanceBookingDays"`
}

func (r *UpdateSlotTemplateRequest) ToDomain(doctorID int64) *domain.SlotTemplate {
	return &domain.SlotTemplate{
		DoctorID:           doctorID,
		DurationMinutes:    r.DurationMinutes,
		BufferMinutes:      r.BufferMinutes,
		AdvanceBookingDays: r.AdvanceBookingDays,
	}
}
