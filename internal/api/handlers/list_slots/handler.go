package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidQuery    = "некорректные параметры запроса"
)

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

// Handle GET /api/v1/doctors/{doctorId}/slots?from=&to=&status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/slots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	req := slots.ListRequest{DoctorID: doctorID}
	if req.From, err = handlers.QueryTime(r, "from"); err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	if req.To, err = handlers.QueryTime(r, "to"); err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.SlotStatus(raw)
		if !status.IsValid() {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.Status = &status
	}

	views, err := h.service.ListSlots(r.Context(), req)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /doctors/{doctorId}/slots", err)
		return
	}

	resp := make([]handlers.SlotResponse, 0, len(views))
	for i := range views {
		item := handlers.NewSlotResponse(views[i].Slot)
		item.Bookable = &views[i].Bookable
		item.BlockedByException = &views[i].BlockedByException
		resp = append(resp, item)
	}

	h.logger.Info("GET /doctors/{doctorId}/slots - Slots retrieved: doctor_id=%d, count=%d", doctorID, len(resp))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
