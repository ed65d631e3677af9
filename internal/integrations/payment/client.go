package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiVersion = "2024-06-20"

// Config параметры подключения к Stripe
type Config struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	Currency      string
	Timeout       time.Duration
}

// Client клиент Stripe REST API
type Client struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	currency      string
	httpClient    *http.Client
	log           Logger
}

// NewClient создает новый экземпляр клиента платёжного провайдера
func NewClient(cfg Config, log Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		currency:      strings.ToLower(cfg.Currency),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		log:           log,
	}
}

// IsConfigured платежи можно принимать
func (c *Client) IsConfigured() bool {
	return c != nil && c.secretKey != ""
}

// CreatePaymentIntent создаёт платёж для записи.
// Ключ идемпотентности выводится из ID записи, поэтому повтор запроса не создаёт второй платёж.
func (c *Client) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	currency := strings.ToLower(params.Currency)
	if currency == "" {
		currency = c.currency
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[appointmentId]", strconv.FormatInt(params.AppointmentID, 10))
	form.Set("metadata[patientId]", strconv.FormatInt(params.PatientID, 10))
	form.Set("metadata[doctorId]", strconv.FormatInt(params.DoctorID, 10))
	if params.Description != "" {
		form.Set("description", params.Description)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", apiVersion)
	req.Header.Set("Idempotency-Key", IdempotencyKey(params.AppointmentID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: response has no payment intent id", ErrInvalidResponse)
	}

	c.log.Info("Payment intent %s created for appointment_id=%d amount=%d %s",
		intent.ID, params.AppointmentID, params.AmountCents, currency)

	return &intent, nil
}

// IdempotencyKey детерминированный ключ идемпотентности платежа записи
func IdempotencyKey(appointmentID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("appointment-payment:"+strconv.FormatInt(appointmentID, 10))).String()
}

func readError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "unknown error"
	}
	var parsed errorResponse
	if json.Unmarshal(data, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(data)
}
