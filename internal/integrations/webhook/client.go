package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	headerSignature = "X-Webhook-Signature"
	headerEventID   = "X-Webhook-Event-Id"
)

// Config параметры исходящего вебхука
type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Client отправляет события записей во внешнюю автоматизацию
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
	log        Logger
	now        func() time.Time
}

// NewClient создает клиента. Без URL отправка отключена.
func NewClient(cfg Config, log Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		secret:     cfg.Secret,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
		now:        time.Now,
	}
}

// Enabled задан адрес получателя
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Send отправляет событие. Тело подписывается HMAC-SHA256 с секретом, если он задан.
func (c *Client) Send(ctx context.Context, eventType string, data AppointmentEvent) error {
	if !c.Enabled() {
		return nil
	}

	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: c.now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerEventID, event.ID)
	if c.secret != "" {
		ts := event.OccurredAt.Unix()
		req.Header.Set(headerSignature, "t="+strconv.FormatInt(ts, 10)+",v1="+Sign(c.secret, body, ts))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	c.log.Info("Webhook %s (%s) delivered for appointment_id=%d", event.ID, eventType, data.AppointmentID)
	return nil
}

// Sign подпись тела для момента ts
func Sign(secret string, body []byte, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
