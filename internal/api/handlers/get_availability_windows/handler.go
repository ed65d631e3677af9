package get_availability_windows

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidDate     = "некорректная дата, ожидается YYYY-MM-DD"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/availability-windows?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/availability-windows - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	date, err := handlers.QueryDate(r, "date", h.location)
	if err != nil || date == nil {
		h.logger.Warn("GET /doctors/{doctorId}/availability-windows - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	windows, err := h.service.GetAvailabilityWindows(r.Context(), doctorID, *date)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /doctors/{doctorId}/availability-windows", err)
		return
	}

	resp := make([]handlers.AvailabilityWindowResponse, 0, len(windows))
	for _, win := range windows {
		resp = append(resp, handlers.NewAvailabilityWindowResponse(win))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
