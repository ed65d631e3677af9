package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
)

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	Upsert(ctx context.Context, appointmentID int64, scheduledFor time.Time) error
	CancelByAppointment(ctx context.Context, appointmentID int64) error
	ListDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reminder, error)
	MarkSent(ctx context.Context, id int64) error
	MarkCancelled(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

// EmailSender отправка писем
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
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
