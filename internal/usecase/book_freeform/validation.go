package book_freeform

import (
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func validateRequest(req *Request, now time.Time) error {
	if req.PatientID <= 0 {
		return ErrInvalidInput.WithMessage("patient id is required")
	}
	if req.DoctorID <= 0 {
		return ErrInvalidInput.WithMessage("doctorId is required")
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return ErrInvalidInput.WithMessage("start and end are required")
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return ErrInvalidInput.WithMessage("notes must not exceed %d characters", domain.MaxNotesLength)
	}

	duration := req.EndAt.Sub(req.StartAt)
	if duration < domain.MinAppointmentMinutes*time.Minute || duration > domain.MaxAppointmentMinutes*time.Minute {
		return ErrInvalidDuration.WithMessage("duration must be between %d minutes and %d hours",
			domain.MinAppointmentMinutes, domain.MaxAppointmentMinutes/60)
	}
	if !req.StartAt.After(now) {
		return ErrStartInPast
	}
	return nil
}
