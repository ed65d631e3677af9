package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория окон приёма
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) (*domain.Schedule, error)
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountBySchedule(ctx context.Context, scheduleID int64, statuses []domain.AppointmentStatus) (int, error)
}

// DoctorRepository интерфейс репозитория врачей
type DoctorRepository interface {
	GetDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error)
	LockDoctor(ctx context.Context, doctorID int64) error
}

// PaymentGateway состояние платёжного провайдера
type PaymentGateway interface {
	IsConfigured() bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
