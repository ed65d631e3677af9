package get_slot_template

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidDoctorID = "некорректный ID врача"

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

// Handle GET /api/v1/doctors/{doctorId}/slot-template
// Если врач не настроил шаблон, возвращаются значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/slot-template - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	tmpl, err := h.service.Get(r.Context(), doctorID)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /doctors/{doctorId}/slot-template", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewSlotTemplateResponse(tmpl))
}
