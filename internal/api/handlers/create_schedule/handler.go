package create_schedule

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

// Handle POST /api/v1/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	doctorID, ok := handlers.ResolveDoctorID(actor, req.DoctorID)
	if !ok {
		handlers.RespondBadRequest(w, msgDoctorRequired)
		return
	}

	sc, err := req.ToDomain(doctorID, h.location)
	if err != nil {
		h.logger.Warn("POST /schedules - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateSchedule(r.Context(), actor, sc)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /schedules", err)
		return
	}

	h.logger.Info("POST /schedules - Schedule created: id=%d, doctor_id=%d, date=%s",
		created.ID, created.DoctorID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewScheduleResponse(created))
}
