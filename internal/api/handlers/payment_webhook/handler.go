package payment_webhook

import (
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
)

const (
	// HeaderSignature подпись события в формате t=...,v1=...
	HeaderSignature = "Stripe-Signature"

	maxPayloadBytes = 64 << 10

	msgInvalidPayload = "некорректное тело события"
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

// Handle POST /webhooks/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Подпись считается по сырому телу
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil || len(payload) == 0 || len(payload) > maxPayloadBytes {
		h.logger.Warn("POST /webhooks/payments - Invalid payload: size=%d, error=%v", len(payload), err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirm_payment.Request{
		Payload:   payload,
		Signature: r.Header.Get(HeaderSignature),
	})
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /webhooks/payments", err)
		return
	}

	resp := WebhookResponse{
		Received: true,
		EventID:  result.EventID,
		Outcome:  string(result.Outcome),
	}
	if result.Appointment != nil {
		resp.AppointmentID = &result.Appointment.ID
	}

	h.logger.Info("POST /webhooks/payments - Event handled: event_id=%s, type=%s, outcome=%s",
		result.EventID, result.EventType, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
