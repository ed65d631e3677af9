package delete_availability

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAvailabilityID = "некорректный ID окна доступности"
	msgUnauthorized          = "пользователь не определён"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/availabilities/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /availabilities/{id} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		handlers.RespondServiceError(w, h.logger, "DELETE /availabilities/{id}", err)
		return
	}

	h.logger.Info("DELETE /availabilities/{id} - Availability deleted: id=%d, user_id=%d", id, actor.UserID)
	handlers.RespondNoContent(w)
}
