package list_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidQuery = "некорректные параметры запроса"
	msgUnauthorized = "пользователь не определён"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments?patientId=&doctorId=&status=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	list, err := h.service.List(r.Context(), actor, req)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /appointments", err)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved: user_id=%d, count=%d", actor.UserID, len(list))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewAppointmentListResponse(list))
}

func parseQuery(r *http.Request) (appointments.ListRequest, error) {
	var req appointments.ListRequest
	var err error

	if req.PatientID, err = handlers.QueryID(r, "patientId"); err != nil {
		return req, err
	}
	if req.DoctorID, err = handlers.QueryID(r, "doctorId"); err != nil {
		return req, err
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		req.Status = &status
	}
	if req.Limit, err = handlers.QueryUint(r, "limit"); err != nil {
		return req, err
	}
	if req.Offset, err = handlers.QueryUint(r, "offset"); err != nil {
		return req, err
	}
	return req, nil
}
