package create_exception

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определён"
)

type Handler struct {
	service  ExceptionService
	location *time.Location
	logger   Logger
}

func NewHandler(service ExceptionService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/schedule-exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule-exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var doctorID *int64
	if id, ok := handlers.ResolveDoctorID(actor, req.DoctorID); ok {
		doctorID = &id
	}

	e, err := req.ToDomain(doctorID, h.location)
	if err != nil {
		h.logger.Warn("POST /schedule-exceptions - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, e)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /schedule-exceptions", err)
		return
	}

	resp := handlers.NewExceptionResponse(result.Exception, result.Days)
	resp.SlotsCreated = &result.SlotsCreated

	h.logger.Info("POST /schedule-exceptions - Exception created: id=%d, type=%s, days=%d",
		result.Exception.ID, result.Exception.Type, result.Days)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
