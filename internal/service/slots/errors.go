package slots

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrSlotNotFound         = apperrors.NotFound("SLOT_NOT_FOUND", "slot not found")
	ErrAvailabilityNotFound = apperrors.NotFound("AVAILABILITY_NOT_FOUND", "availability not found")
	ErrExceptionNotFound    = apperrors.NotFound("SCHEDULE_EXCEPTION_NOT_FOUND", "schedule exception not found")

	// ErrSlotBooked занятый слот нельзя заблокировать или освободить вручную
	ErrSlotBooked = apperrors.Conflict("SLOT_BOOKED", "slot is booked")

	ErrInvalidSlotStatus = apperrors.Validation("INVALID_SLOT_STATUS", "status must be AVAILABLE or BLOCKED")
	ErrInvalidRange      = apperrors.Validation("INVALID_RANGE", "invalid date range")
	ErrAccessDenied      = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an admin can manage these slots")
)
