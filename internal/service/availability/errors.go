package availability

import "github.com/m04kA/SMC-AppointmentService/pkg/apperrors"

var (
	ErrAvailabilityNotFound = apperrors.NotFound("AVAILABILITY_NOT_FOUND", "availability not found")
	ErrDoctorNotFound       = apperrors.NotFound("DOCTOR_NOT_FOUND", "doctor not found")

	// ErrOverlap окно пересекается с другим окном того же врача
	ErrOverlap = apperrors.Conflict("AVAILABILITY_OVERLAP", "availability overlaps an existing one")

	// ErrInUse у окна есть активные записи
	ErrInUse = apperrors.Conflict("AVAILABILITY_IN_USE", "availability has active appointments")

	ErrAccessDenied = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an admin can manage this availability")
)
