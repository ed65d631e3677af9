package cancel_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	usecase "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос сценария
func (r *CancelAppointmentRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) *usecase.Request {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &usecase.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		Reason:        reason,
	}
}
