package update_appointment_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/update_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

func (r *UpdateStatusRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) *update_status.Request {
	req := &update_status.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		Status:        domain.AppointmentStatus(r.Status),
	}
	if r.Reason != nil {
		req.Reason = *r.Reason
	}
	return req
}
