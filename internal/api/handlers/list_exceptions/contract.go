package list_exceptions

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/exceptions"
)

type ExceptionService interface {
	List(ctx context.Context, filter domain.ExceptionFilter) ([]*exceptions.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
