package domain

import "time"

// SlotTemplate параметры нарезки слотов для врача
type SlotTemplate struct {
	DoctorID           int64
	DurationMinutes    int
	BufferMinutes      int
	AdvanceBookingDays int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultSlotTemplate шаблон, используемый, если врач не настроил свой
func DefaultSlotTemplate(doctorID int64) *SlotTemplate {
	return &SlotTemplate{
		DoctorID:           doctorID,
		DurationMinutes:    DefaultSlotDurationMinutes,
		BufferMinutes:      DefaultBufferMinutes,
		AdvanceBookingDays: DefaultAdvanceBookingDays,
	}
}

// Validate проверяет границы параметров шаблона
func (t *SlotTemplate) Validate() error {
	if t.DurationMinutes < MinSlotDurationMinutes || t.DurationMinutes > MaxSlotDurationMinutes {
		return ErrInvalidSlotTemplate.WithMessage("duration_minutes must be between %d and %d",
			MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if t.BufferMinutes < MinBufferMinutes || t.BufferMinutes > MaxBufferMinutes {
		return ErrInvalidSlotTemplate.WithMessage("buffer_minutes must be between %d and %d",
			MinBufferMinutes, MaxBufferMinutes)
	}
	if t.AdvanceBookingDays < MinAdvanceBookingDays || t.AdvanceBookingDays > MaxAdvanceBookingDays {
		return ErrInvalidSlotTemplate.WithMessage("advance_booking_days must be between %d and %d",
			MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	return nil
}

// Step шаг между началами соседних слотов
func (t *SlotTemplate) Step() time.Duration {
	return time.Duration(t.DurationMinutes+t.BufferMinutes) * time.Minute
}

// Duration длительность одного слота
func (t *SlotTemplate) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
