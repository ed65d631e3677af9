package book_freeform

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrDoctorNotFound  = apperrors.NotFound("DOCTOR_NOT_FOUND", "doctor not found")
	ErrPatientNotFound = apperrors.NotFound("PATIENT_NOT_FOUND", "patient not found")

	ErrOutsideAvailability = apperrors.Validation("OUTSIDE_AVAILABILITY", "requested time is outside doctor availability")
	ErrDoctorUnavailable   = apperrors.Conflict("DOCTOR_UNAVAILABLE", "doctor is unavailable at this time")
	ErrTimeConflict        = apperrors.Conflict("TIME_CONFLICT", "requested time overlaps another appointment")

	ErrInvalidDuration = apperrors.Validation("INVALID_DURATION", "invalid appointment duration")
	ErrStartInPast     = apperrors.Validation("START_IN_PAST", "appointment must start in the future")
	ErrInvalidInput    = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
