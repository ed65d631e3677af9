package exceptions

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrExceptionNotFound = apperrors.NotFound("SCHEDULE_EXCEPTION_NOT_FOUND", "schedule exception not found")
	ErrAccessDenied      = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an admin can manage schedule exceptions")
)
