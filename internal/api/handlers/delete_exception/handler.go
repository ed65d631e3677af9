package delete_exception

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidExceptionID = "некорректный ID исключения"
	msgUnauthorized       = "пользователь не определён"
)

type Handler struct {
	service ExceptionService
	logger  Logger
}

func NewHandler(service ExceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/schedule-exceptions/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /schedule-exceptions/{id} - Invalid exception ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		handlers.RespondServiceError(w, h.logger, "DELETE /schedule-exceptions/{id}", err)
		return
	}

	h.logger.Info("DELETE /schedule-exceptions/{id} - Exception deleted: id=%d, user_id=%d", id, actor.UserID)
	handlers.RespondNoContent(w)
}
