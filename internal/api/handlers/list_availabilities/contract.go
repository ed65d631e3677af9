package list_availabilities

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type AvailabilityService interface {
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Availability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
