package schedules

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrScheduleNotFound = apperrors.NotFound("SCHEDULE_NOT_FOUND", "schedule not found")
	ErrDoctorNotFound   = apperrors.NotFound("DOCTOR_NOT_FOUND", "doctor not found")

	ErrScheduleExists   = apperrors.Conflict("SCHEDULE_EXISTS", "schedule already exists")
	ErrScheduleOverlaps = apperrors.Conflict("SCHEDULE_OVERLAP", "schedule overlaps an existing schedule")
	ErrScheduleInUse    = apperrors.Conflict("SCHEDULE_IN_USE", "schedule has confirmed or pending-payment appointments")

	ErrAccessDenied = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an admin can manage schedules")
)
