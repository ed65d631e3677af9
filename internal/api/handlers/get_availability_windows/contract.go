package get_availability_windows

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type ScheduleService interface {
	GetAvailabilityWindows(ctx context.Context, doctorID int64, date time.Time) ([]domain.AvailabilityWindow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
