package appointments

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

const (
	// JobName имя задачи архивации (метрики и блокировка)
	JobName = "archive"

	// ExpiredNote пометка в заметках записи, отменённой по истечении времени
	ExpiredNote = "Cancelled: expired"

	DefaultListLimit = 50
	MaxListLimit     = 500

	expireBatch = 200
)

// ListRequest фильтр списка записей
type ListRequest struct {
	PatientID *int64
	DoctorID  *int64
	Status    *domain.AppointmentStatus
	Limit     uint64
	Offset    uint64
}
