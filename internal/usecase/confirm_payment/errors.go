package confirm_payment

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrInvalidSignature = apperrors.Validation("INVALID_SIGNATURE", "webhook signature verification failed")
	ErrInvalidEvent     = apperrors.Validation("INVALID_EVENT", "webhook payload is malformed")
	ErrNotConfigured    = apperrors.Unavailable("PAYMENT_NOT_CONFIGURED", "payment webhooks are not configured")

	ErrAppointmentNotFound = apperrors.NotFound("APPOINTMENT_NOT_FOUND", "appointment for payment not found")
	ErrScheduleNotFound    = apperrors.NotFound("SCHEDULE_NOT_FOUND", "schedule not found")

	// ErrScheduleFull окно заполнилось до подтверждения оплаты; наружу не возвращается
	ErrScheduleFull = apperrors.Conflict("SCHEDULE_FULL", "schedule is full")
)
