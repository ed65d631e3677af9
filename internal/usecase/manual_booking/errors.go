package manual_booking

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrScheduleNotFound = apperrors.NotFound("SCHEDULE_NOT_FOUND", "schedule not found")
	ErrDoctorNotFound   = apperrors.NotFound("DOCTOR_NOT_FOUND", "doctor not found")
	ErrPatientNotFound  = apperrors.NotFound("PATIENT_NOT_FOUND", "patient not found")

	ErrAccessDenied   = apperrors.Forbidden("ACCESS_DENIED", "only administrators can create manual bookings")
	ErrScheduleInPast = apperrors.Validation("SCHEDULE_IN_PAST", "schedule has already ended")
	ErrScheduleFull   = apperrors.Conflict("SCHEDULE_FULL", "schedule is full")
	ErrInvalidInput   = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
