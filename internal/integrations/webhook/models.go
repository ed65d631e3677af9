package webhook

import "time"

// Типы событий записи
const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentConfirmed   = "appointment.confirmed"
)

// Event тело исходящего уведомления
type Event struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	Data       AppointmentEvent `json:"data"`
}

// AppointmentEvent данные записи в уведомлении
type AppointmentEvent struct {
	AppointmentID int64     `json:"appointmentId"`
	PatientID     int64     `json:"patientId"`
	DoctorID      int64     `json:"doctorId"`
	PatientEmail  string    `json:"patientEmail,omitempty"`
	DoctorEmail   string    `json:"doctorEmail,omitempty"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
}
