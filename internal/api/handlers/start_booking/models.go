package start_booking

import "github.com/m04kA/SMC-AppointmentService/internal/api/handlers"

// StartBookingRequest HTTP request model
type StartBookingRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// StartBookingResponse запись, ожидающая оплаты, и секрет для клиента платёжной системы
type StartBookingResponse struct {
	Appointment  handlers.AppointmentResponse `json:"appointment"`
	ClientSecret string                       `json:"clientSecret"`
}
