package manual_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория окон приёма
type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CountBySchedule(ctx context.Context, scheduleID int64, statuses []domain.AppointmentStatus) (int, error)
}

// UserRepository интерфейс репозитория пользователей и врачей
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

// ReminderScheduler планирование напоминаний
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt *domain.Appointment) error
}

// Notifier фоновые уведомления
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *domain.Appointment)
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
