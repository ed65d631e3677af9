package update_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAvailabilityID = "некорректный ID окна доступности"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgUnauthorized          = "пользователь не определён"
)

type Handler struct {
	service  AvailabilityService
	location *time.Location
	logger   Logger
}

func NewHandler(service AvailabilityService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle PUT /api/v1/availabilities/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("PUT /availabilities/{id} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	var req handlers.AvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /availabilities/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Врач окна не меняется, сервис берёт его из сохранённой записи
	a, err := req.ToDomain(0, h.location)
	if err != nil {
		h.logger.Warn("PUT /availabilities/{id} - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), actor, id, a)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "PUT /availabilities/{id}", err)
		return
	}

	resp := handlers.NewAvailabilityResponse(result.Availability)
	resp.SlotsCreated = &result.SlotsCreated

	h.logger.Info("PUT /availabilities/{id} - Availability updated: id=%d, slots=%d", id, result.SlotsCreated)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
