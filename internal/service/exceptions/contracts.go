package exceptions

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ExceptionRepository интерфейс репозитория исключений из расписания
type ExceptionRepository interface {
	Create(ctx context.Context, e *domain.ScheduleException) (*domain.ScheduleException, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error)
	List(ctx context.Context, filter domain.ExceptionFilter) ([]*domain.ScheduleException, error)
	Delete(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteUnbookedByException(ctx context.Context, exceptionID int64) (int64, error)
}

// SlotGenerator генерация слотов дополнительного рабочего времени
type SlotGenerator interface {
	GenerateForException(ctx context.Context, exceptionID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
