package update_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
}

// Canceller отмена записи с освобождением слота
type Canceller interface {
	Execute(ctx context.Context, req *cancel_appointment.Request) (*domain.Appointment, error)
}

// ReminderService планирование и отмена напоминаний
type ReminderService interface {
	Schedule(ctx context.Context, appt *domain.Appointment) error
	Cancel(ctx context.Context, appointmentID int64) error
}

// Notifier фоновые уведомления
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *domain.Appointment)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
