package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureTolerance допустимое расхождение времени подписи
const SignatureTolerance = 5 * time.Minute

// ParseWebhook проверяет подпись заголовка Stripe-Signature и разбирает событие
func (c *Client) ParseWebhook(payload []byte, signatureHeader string, now time.Time) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	if err := VerifySignature(c.webhookSecret, payload, signatureHeader, now); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: missing id or type", ErrInvalidEvent)
	}

	return &event, nil
}

// VerifySignature проверяет заголовок вида "t=<unix>,v1=<hex>".
// Подпись: HMAC-SHA256(secret, "<t>.<payload>").
func VerifySignature(secret string, payload []byte, header string, now time.Time) error {
	var (
		timestamp  string
		signatures []string
	)

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	if diff := now.Sub(time.Unix(ts, 0)); diff > SignatureTolerance || diff < -SignatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	expected := Sign(secret, payload, ts)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return ErrInvalidSignature
}

// Sign вычисляет подпись v1 для payload и момента ts
func Sign(secret string, payload []byte, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// AppointmentID извлекает ID записи из метаданных платежа
func (o EventObject) AppointmentID() (int64, bool) {
	raw, ok := o.Metadata["appointmentId"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
