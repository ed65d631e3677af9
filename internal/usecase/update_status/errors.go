package update_status

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrAppointmentNotFound = apperrors.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")
	ErrAccessDenied        = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an administrator can change appointment status")
	ErrInvalidInput        = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
