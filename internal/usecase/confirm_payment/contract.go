package confirm_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payment"
)

// WebhookParser проверка подписи и разбор события провайдера
type WebhookParser interface {
	ParseWebhook(payload []byte, signatureHeader string, now time.Time) (*payment.Event, error)
}

// IdempotencyStore отметки обработанных событий
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	CountBySchedule(ctx context.Context, scheduleID int64, statuses []domain.AppointmentStatus) (int, error)
}

// ScheduleRepository интерфейс репозитория окон приёма
type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
}

// ReminderScheduler планирование напоминаний
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt *domain.Appointment) error
}

// Notifier фоновые уведомления
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *domain.Appointment)
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason string)
}

// Metrics счётчики бронирований
type Metrics interface {
	ObserveBooking(kind, outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
