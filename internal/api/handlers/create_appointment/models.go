package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/book_freeform"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

// CreateAppointmentRequest HTTP request model.
// Либо slotId, либо doctorId + startAt + endAt.
type CreateAppointmentRequest struct {
	SlotID   *int64     `json:"slotId,omitempty"`
	DoctorID *int64     `json:"doctorId,omitempty"`
	StartAt  *time.Time `json:"startAt,omitempty"`
	EndAt    *time.Time `json:"endAt,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// IsSlotBooking запись на готовый слот
func (r *CreateAppointmentRequest) IsSlotBooking() bool {
	return r.SlotID != nil
}

// IsFreeform запись на произвольное время
func (r *CreateAppointmentRequest) IsFreeform() bool {
	return r.DoctorID != nil && r.StartAt != nil && r.EndAt != nil
}

func (r *CreateAppointmentRequest) ToSlotRequest(patientID int64) *book_slot.Request {
	return &book_slot.Request{
		PatientID: patientID,
		SlotID:    *r.SlotID,
		Notes:     r.Notes,
	}
}

func (r *CreateAppointmentRequest) ToFreeformRequest(patientID int64) *book_freeform.Request {
	return &book_freeform.Request{
		PatientID: patientID,
		DoctorID:  *r.DoctorID,
		StartAt:   *r.StartAt,
		EndAt:     *r.EndAt,
		Notes:     r.Notes,
	}
}
