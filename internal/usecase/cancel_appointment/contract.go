package cancel_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error
}

// ReminderCanceller отмена напоминаний
type ReminderCanceller interface {
	Cancel(ctx context.Context, appointmentID int64) error
}

// Notifier фоновые уведомления
type Notifier interface {
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason string)
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
