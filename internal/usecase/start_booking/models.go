package start_booking

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

const (
	metricKind = "schedule"

	// paymentFailedNote строка в заметках записи, отменённой из-за ошибки провайдера
	paymentFailedNote = "Cancelled: payment could not be started"
)

// Request запрос пациента на запись в окно приёма с онлайн-оплатой
type Request struct {
	PatientID  int64
	ScheduleID int64
	Notes      *string
}

// Response запись в ожидании оплаты и секрет для клиента платёжной формы
type Response struct {
	Appointment  *domain.Appointment
	ClientSecret string
}
