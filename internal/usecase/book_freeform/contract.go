package book_freeform

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Availability, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	HasOverlapping(ctx context.Context, doctorID int64, start, end time.Time, excludeID *int64) (bool, error)
}

// ExceptionRepository интерфейс репозитория исключений из расписания
type ExceptionRepository interface {
	List(ctx context.Context, filter domain.ExceptionFilter) ([]*domain.ScheduleException, error)
}

// UserRepository интерфейс репозитория пользователей и врачей
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	LockDoctor(ctx context.Context, doctorID int64) error
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
