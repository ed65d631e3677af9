package manual_booking

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

const metricKind = "manual"

// Request запись пациента в окно приёма администратором (оплата на месте)
type Request struct {
	Actor      domain.Actor
	ScheduleID int64
	PatientID  int64
	Notes      *string
}
