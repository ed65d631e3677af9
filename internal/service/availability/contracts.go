package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	Create(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
	GetByID(ctx context.Context, id int64) (*domain.Availability, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Availability, error)
	Update(ctx context.Context, a *domain.Availability) error
	Delete(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteUnbookedByAvailability(ctx context.Context, availabilityID int64, from *time.Time) (int64, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountByAvailability(ctx context.Context, availabilityID int64, statuses []domain.AppointmentStatus) (int, error)
}

// DoctorLocker блокирует строку врача до конца транзакции
type DoctorLocker interface {
	LockDoctor(ctx context.Context, doctorID int64) error
}

// SlotGenerator генерация слотов окна
type SlotGenerator interface {
	GenerateForAvailability(ctx context.Context, availabilityID int64) (int, error)
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
