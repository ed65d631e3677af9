package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAmbiguousTarget    = "укажите либо slotId, либо doctorId, startAt и endAt"
	msgPatientsOnly       = "записаться на приём может только пациент"
	msgUnauthorized       = "пользователь не определён"
)

type Handler struct {
	slotBooker     SlotBooker
	freeformBooker FreeformBooker
	logger         Logger
}

func NewHandler(slotBooker SlotBooker, freeformBooker FreeformBooker, logger Logger) *Handler {
	return &Handler{
		slotBooker:     slotBooker,
		freeformBooker: freeformBooker,
		logger:         logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	if actor.Role != domain.RolePatient {
		h.logger.Warn("POST /appointments - Forbidden for role: user_id=%d, role=%s", actor.UserID, actor.Role)
		handlers.RespondForbidden(w, msgPatientsOnly)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Ровно один способ записи
	if req.IsSlotBooking() == req.IsFreeform() {
		h.logger.Warn("POST /appointments - Ambiguous target: user_id=%d", actor.UserID)
		handlers.RespondBadRequest(w, msgAmbiguousTarget)
		return
	}

	var (
		appt *domain.Appointment
		err  error
	)
	if req.IsSlotBooking() {
		appt, err = h.slotBooker.Execute(r.Context(), req.ToSlotRequest(actor.UserID))
	} else {
		appt, err = h.freeformBooker.Execute(r.Context(), req.ToFreeformRequest(actor.UserID))
	}
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("POST /appointments - Failed to book: user_id=%d, error=%v", actor.UserID, err)
		} else {
			h.logger.Warn("POST /appointments - Booking rejected: user_id=%d, error=%v", actor.UserID, err)
		}
		handlers.RespondAppError(w, err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, patient_id=%d, doctor_id=%d",
		appt.ID, appt.PatientID, appt.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewAppointmentResponse(appt))
}
