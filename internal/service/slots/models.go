package slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// MaxListRangeDays наибольший диапазон выборки слотов
const MaxListRangeDays = 93

// JobName имя задачи генерации слотов (метрики и блокировка)
const JobName = "slots"

// ListRequest запрос списка слотов врача
type ListRequest struct {
	DoctorID int64
	From     *time.Time
	To       *time.Time
	Status   *domain.SlotStatus
}

// SlotView слот с признаком доступности для записи
type SlotView struct {
	Slot     *domain.Slot
	Bookable bool
	// BlockedByException слот попадает в исключение UNAVAILABLE
	BlockedByException bool
}
