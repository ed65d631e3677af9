package start_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	usecase "github.com/m04kA/SMC-AppointmentService/internal/usecase/start_booking"
)

const (
	msgInvalidScheduleID  = "некорректный ID окна приёма"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPatientsOnly       = "записаться на приём может только пациент"
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

// Handle POST /api/v1/schedules/{id}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	if actor.Role != domain.RolePatient {
		h.logger.Warn("POST /schedules/{id}/bookings - Forbidden for role: user_id=%d, role=%s", actor.UserID, actor.Role)
		handlers.RespondForbidden(w, msgPatientsOnly)
		return
	}

	scheduleID, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("POST /schedules/{id}/bookings - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req StartBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /schedules/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &usecase.Request{
		PatientID:  actor.UserID,
		ScheduleID: scheduleID,
		Notes:      req.Notes,
	})
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /schedules/{id}/bookings", err)
		return
	}

	h.logger.Info("POST /schedules/{id}/bookings - Payment started: appointment_id=%d, schedule_id=%d, patient_id=%d",
		resp.Appointment.ID, scheduleID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, StartBookingResponse{
		Appointment:  handlers.NewAppointmentResponse(resp.Appointment),
		ClientSecret: resp.ClientSecret,
	})
}
