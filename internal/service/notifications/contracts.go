package notifications

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/webhook"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

// EmailSender отправка писем
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// WebhookSender исходящие уведомления о событиях записи
type WebhookSender interface {
	Send(ctx context.Context, eventType string, data webhook.AppointmentEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
