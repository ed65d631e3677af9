package manual_booking

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	usecase "github.com/m04kA/SMC-AppointmentService/internal/usecase/manual_booking"
)

const (
	msgInvalidScheduleID  = "некорректный ID окна приёма"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPatientRequired    = "не указан пациент"
	msgUnauthorized       = "пользователь не определён"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedules/{id}/manual-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	scheduleID, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("POST /schedules/{id}/manual-bookings - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req ManualBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules/{id}/manual-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.PatientID <= 0 {
		handlers.RespondBadRequest(w, msgPatientRequired)
		return
	}

	// Права администратора проверяет сценарий
	appt, err := h.useCase.Execute(r.Context(), &usecase.Request{
		Actor:      actor,
		ScheduleID: scheduleID,
		PatientID:  req.PatientID,
		Notes:      req.Notes,
	})
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /schedules/{id}/manual-bookings", err)
		return
	}

	h.logger.Info("POST /schedules/{id}/manual-bookings - Appointment confirmed: appointment_id=%d, schedule_id=%d, admin=%d",
		appt.ID, scheduleID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewAppointmentResponse(appt))
}
