package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Availability, error)
	ListActiveRecurring(ctx context.Context, today time.Time) ([]*domain.Availability, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	BulkCreate(ctx context.Context, candidates []domain.SlotCandidate) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error
}

// TemplateRepository интерфейс репозитория шаблонов слотов
type TemplateRepository interface {
	CreateIfMissing(ctx context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error)
}

// ExceptionRepository интерфейс репозитория исключений из расписания
type ExceptionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error)
	List(ctx context.Context, filter domain.ExceptionFilter) ([]*domain.ScheduleException, error)
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
