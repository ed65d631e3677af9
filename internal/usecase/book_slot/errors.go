package book_slot

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrSlotNotFound    = apperrors.NotFound("SLOT_NOT_FOUND", "slot not found")
	ErrPatientNotFound = apperrors.NotFound("PATIENT_NOT_FOUND", "patient not found")

	// ErrSlotNotAvailable слот занят, заблокирован или попадает в исключение UNAVAILABLE
	ErrSlotNotAvailable = apperrors.Conflict("SLOT_NOT_AVAILABLE", "slot is not available")

	ErrSlotInPast   = apperrors.Validation("SLOT_IN_PAST", "slot has already started")
	ErrInvalidInput = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
