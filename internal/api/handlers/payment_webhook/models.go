package payment_webhook

// WebhookResponse подтверждение приёма события
type WebhookResponse struct {
	Received      bool   `json:"received"`
	EventID       string `json:"eventId,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	AppointmentID *int64 `json:"appointmentId,omitempty"`
}
