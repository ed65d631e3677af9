package generate_slots

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAvailabilityID = "некорректный ID окна доступности"
	msgUnauthorized          = "пользователь не определён"
)

// GenerateSlotsResponse число созданных слотов
type GenerateSlotsResponse struct {
	AvailabilityID int64 `json:"availabilityId"`
	SlotsCreated   int   `json:"slotsCreated"`
}

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

// Handle POST /api/v1/availabilities/{id}/generate-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("POST /availabilities/{id}/generate-slots - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	created, err := h.service.Regenerate(r.Context(), actor, id)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /availabilities/{id}/generate-slots", err)
		return
	}

	h.logger.Info("POST /availabilities/{id}/generate-slots - Slots generated: id=%d, created=%d", id, created)
	handlers.RespondJSON(w, http.StatusOK, GenerateSlotsResponse{AvailabilityID: id, SlotsCreated: created})
}
