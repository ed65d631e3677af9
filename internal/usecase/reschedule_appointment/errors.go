package reschedule_appointment

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrAppointmentNotFound = apperrors.NotFound("APPOINTMENT_NOT_FOUND", "appointment not found")
	ErrSlotNotFound        = apperrors.NotFound("SLOT_NOT_FOUND", "slot not found")

	ErrSlotNotAvailable = apperrors.Conflict("SLOT_NOT_AVAILABLE", "slot is not available")

	ErrDoctorMismatch   = apperrors.Validation("DOCTOR_MISMATCH", "new slot belongs to another doctor")
	ErrQueueAppointment = apperrors.Validation("QUEUE_APPOINTMENT", "queue appointments cannot be moved to a slot")
	ErrInvalidInput     = apperrors.Validation("INVALID_INPUT", "invalid input data")
)
