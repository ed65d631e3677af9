package update_slot_status

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определён"
)

// UpdateSlotStatusRequest HTTP request model
type UpdateSlotStatusRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/slots/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/status - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.SetSlotStatus(r.Context(), actor, id, domain.SlotStatus(req.Status))
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "PATCH /slots/{id}/status", err)
		return
	}

	h.logger.Info("PATCH /slots/{id}/status - Slot updated: id=%d, status=%s", id, slot.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewSlotResponse(slot))
}
