package cancel_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request запрос на отмену записи
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	Reason        string
}

// notePrefix префикс строки об отмене в заметках записи
const notePrefix = "Cancelled"
