package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	// ErrSendFailed провайдер не принял письмо
	ErrSendFailed = errors.New("email: send failed")
)

// Message письмо
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Config параметры SendGrid
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host переопределяет адрес API (используется в тестах)
	Host string
}

// SendGridSender отправка писем через SendGrid
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender создаёт отправителя. Без API-ключа возвращает nil.
func NewSendGridSender(cfg Config, log Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Clinic"
	}

	var client *sendgrid.Client
	if cfg.Host != "" {
		req := sendgrid.GetRequest(cfg.APIKey, "/v3/mail/send", cfg.Host)
		req.Method = "POST"
		client = &sendgrid.Client{Request: req}
	} else {
		client = sendgrid.NewSendClient(cfg.APIKey)
	}

	return &SendGridSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, response.StatusCode, response.Body)
	}

	s.log.Info("Email %q sent to %s (status=%d)", msg.Subject, msg.To, response.StatusCode)
	return nil
}

// LogSender пишет письма в лог вместо отправки (почта не настроена)
type LogSender struct {
	log Logger
}

func NewLogSender(log Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email delivery disabled, skipping %q to %s", msg.Subject, msg.To)
	return nil
}
