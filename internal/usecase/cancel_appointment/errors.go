package cancel_appointment

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrAppointmentNotFound = apperrors.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")
	ErrInvalidInput        = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
