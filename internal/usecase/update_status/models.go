package update_status

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request запрос на смену статуса записи
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	Status        domain.AppointmentStatus
	Reason        string // только для CANCELLED
}
