package create_exception

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/exceptions"
)

type ExceptionService interface {
	Create(ctx context.Context, actor domain.Actor, e *domain.ScheduleException) (*exceptions.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
