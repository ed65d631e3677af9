package book_slot

import (
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return ErrInvalidInput.WithMessage("patient id is required")
	}
	if req.SlotID <= 0 {
		return ErrInvalidInput.WithMessage("slotId is required")
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return ErrInvalidInput.WithMessage("notes must not exceed %d characters", domain.MaxNotesLength)
	}
	return nil
}
