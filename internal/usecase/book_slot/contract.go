package book_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// ExceptionRepository интерфейс репозитория исключений из расписания
type ExceptionRepository interface {
	List(ctx context.Context, filter domain.ExceptionFilter) ([]*domain.ScheduleException, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// ReminderScheduler планирование напоминаний
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt *domain.Appointment) error
}

// Notifier фоновые уведомления
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *domain.Appointment)
}

// Metrics счётчики бронирований
type Metrics interface {
	ObserveBooking(kind, outcome string)
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
