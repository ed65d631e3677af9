package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type AvailabilityService interface {
	Regenerate(ctx context.Context, actor domain.Actor, id int64) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
