package list_availabilities

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidDoctorID = "некорректный ID врача"

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

// Handle GET /api/v1/doctors/{doctorId}/availabilities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/availabilities - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	list, err := h.service.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /doctors/{doctorId}/availabilities", err)
		return
	}

	resp := make([]handlers.AvailabilityResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, handlers.NewAvailabilityResponse(a))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
