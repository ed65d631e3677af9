package list_exceptions

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const msgInvalidQuery = "некорректные параметры запроса"

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

// Handle GET /api/v1/schedule-exceptions?doctorId=&from=&to=
// Клинико-широкие исключения включаются всегда.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := domain.ExceptionFilter{IncludeGlobal: true}

	var err error
	if filter.DoctorID, err = handlers.QueryID(r, "doctorId"); err == nil {
		if filter.From, err = handlers.QueryDate(r, "from", h.location); err == nil {
			filter.To, err = handlers.QueryDate(r, "to", h.location)
		}
	}
	if err != nil {
		h.logger.Warn("GET /schedule-exceptions - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /schedule-exceptions", err)
		return
	}

	resp := make([]handlers.ExceptionResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, handlers.NewExceptionResponse(item.Exception, item.Days))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
