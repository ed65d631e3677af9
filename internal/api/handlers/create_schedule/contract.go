package create_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, actor domain.Actor, sc *domain.Schedule) (*domain.Schedule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
