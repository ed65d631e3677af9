package reschedule_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request запрос на перенос записи в другой слот того же врача
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	NewSlotID     int64
}
