package reschedule_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	usecase "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgSlotRequired         = "не указан новый слот"
	msgUnauthorized         = "пользователь не определён"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.NewSlotID <= 0 {
		handlers.RespondBadRequest(w, msgSlotRequired)
		return
	}

	appt, err := h.useCase.Execute(r.Context(), &usecase.Request{
		Actor:         actor,
		AppointmentID: id,
		NewSlotID:     req.NewSlotID,
	})
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "PATCH /appointments/{id}/reschedule", err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment moved: appointment_id=%d, slot_id=%d",
		id, req.NewSlotID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentResponse(appt))
}
