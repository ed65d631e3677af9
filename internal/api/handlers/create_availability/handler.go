package create_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgDoctorRequired     = "не указан врач"
	msgUnauthorized       = "пользователь не определён"
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

// Handle POST /api/v1/availabilities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req handlers.AvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availabilities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	doctorID, ok := handlers.ResolveDoctorID(actor, req.DoctorID)
	if !ok {
		handlers.RespondBadRequest(w, msgDoctorRequired)
		return
	}

	a, err := req.ToDomain(doctorID, h.location)
	if err != nil {
		h.logger.Warn("POST /availabilities - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, a)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /availabilities", err)
		return
	}

	resp := handlers.NewAvailabilityResponse(result.Availability)
	resp.SlotsCreated = &result.SlotsCreated

	h.logger.Info("POST /availabilities - Availability created: id=%d, doctor_id=%d, slots=%d",
		result.Availability.ID, doctorID, result.SlotsCreated)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
