package update_slot_template

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определён"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/doctors/{doctorId}/slot-template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("PUT /doctors/{doctorId}/slot-template - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req UpdateSlotTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{doctorId}/slot-template - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	saved, err := h.service.Upsert(r.Context(), actor, req.ToDomain(doctorID))
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "PUT /doctors/{doctorId}/slot-template", err)
		return
	}

	h.logger.Info("PUT /doctors/{doctorId}/slot-template - Template saved: doctor_id=%d", doctorID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewSlotTemplateResponse(saved))
}
