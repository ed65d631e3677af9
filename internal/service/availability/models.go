package availability

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Result окно доступности и количество созданных для него слотов
type Result struct {
	Availability *domain.Availability
	SlotsCreated int
}
