package appointments

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrAppointmentNotFound = apperrors.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")
	ErrAccessDenied        = apperrors.Forbidden("ACCESS_DENIED", "appointment belongs to another user")
	ErrInvalidFilter       = apperrors.Validation("INVALID_FILTER", "invalid appointment filter")
)
