package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	ListExpiredAwaiting(ctx context.Context, now time.Time, limit uint64) ([]*domain.Appointment, error)
	ArchiveFinished(ctx context.Context, before time.Time) (int64, error)
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики периодических задач
type Metrics interface {
	ObserveSweepItem(job, result string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
