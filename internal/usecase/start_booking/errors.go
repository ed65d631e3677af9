package start_booking

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrScheduleNotFound = apperrors.NotFound("SCHEDULE_NOT_FOUND", "schedule not found")
	ErrDoctorNotFound   = apperrors.NotFound("DOCTOR_NOT_FOUND", "doctor not found")
	ErrPatientNotFound  = apperrors.NotFound("PATIENT_NOT_FOUND", "patient not found")

	ErrScheduleInPast = apperrors.Validation("SCHEDULE_IN_PAST", "schedule has already ended")
	ErrScheduleFull   = apperrors.Conflict("SCHEDULE_FULL", "schedule is full")

	ErrPaymentNotConfigured = apperrors.Unavailable("PAYMENT_NOT_CONFIGURED", "online payment is not configured")
	ErrPriceNotSet          = apperrors.Unavailable("PRICE_NOT_SET", "consultation fee is not set for this doctor")
	ErrPaymentUnavailable   = apperrors.Unavailable("PAYMENT_UNAVAILABLE", "payment provider is unavailable")

	ErrInvalidInput = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
