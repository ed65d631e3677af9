package jobs

import (
	"context"
	"time"
)

// Job периодическая задача, возвращает число обработанных элементов
type Job func(ctx context.Context) (int, error)

type Locker interface {
	Run(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
