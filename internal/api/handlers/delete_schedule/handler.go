package delete_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidScheduleID = "некорректный ID окна приёма"
	msgUnauthorized      = "пользователь не определён"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/schedules/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	if err := h.service.DeleteSchedule(r.Context(), actor, id); err != nil {
		handlers.RespondServiceError(w, h.logger, "DELETE /schedules/{id}", err)
		return
	}

	h.logger.Info("DELETE /schedules/{id} - Schedule deleted: id=%d, user_id=%d", id, actor.UserID)
	handlers.RespondNoContent(w)
}
