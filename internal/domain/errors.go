package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

// Ошибки бизнес-правил, общие для сервисов и сценариев
var (
	ErrInvalidStatus           = apperrors.Validation("INVALID_STATUS", "unknown appointment status")
	ErrInvalidStatusTransition = apperrors.Validation("INVALID_STATUS_TRANSITION", "status transition is not allowed")
	ErrTerminalStatus          = apperrors.Validation("APPOINTMENT_FINALIZED", "appointment is already finalized")
	ErrAppointmentEnded        = apperrors.Validation("APPOINTMENT_ENDED", "appointment has already ended")
	ErrAppointmentNotStarted   = apperrors.Validation("APPOINTMENT_NOT_STARTED", "appointment has not started yet")

	ErrCancellationDisabled = apperrors.Forbidden("CANCELLATION_NOT_ALLOWED", "role is not allowed to change appointments")
	ErrNotOwner             = apperrors.Forbidden("NOT_OWNER", "appointment belongs to another user")
	ErrAppointmentStarted   = apperrors.Validation("APPOINTMENT_STARTED", "appointment has already started")
	ErrTooLateToChange      = apperrors.Validation("TOO_LATE_TO_CHANGE", "not enough notice before the appointment")

	ErrInvalidAvailability = apperrors.Validation("INVALID_AVAILABILITY", "invalid availability")
	ErrInvalidException    = apperrors.Validation("INVALID_SCHEDULE_EXCEPTION", "invalid schedule exception")
	ErrInvalidSchedule     = apperrors.Validation("INVALID_SCHEDULE", "invalid schedule")
	ErrInvalidSlotTemplate = apperrors.Validation("INVALID_SLOT_TEMPLATE", "invalid slot template")
	ErrInvalidTimeRange    = apperrors.Validation("INVALID_TIME_RANGE", "end must be after start")
)
