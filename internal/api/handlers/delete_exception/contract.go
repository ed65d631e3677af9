package delete_exception

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type ExceptionService interface {
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
