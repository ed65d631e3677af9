package create_availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

type AvailabilityService interface {
	Create(ctx context.Context, actor domain.Actor, a *domain.Availability) (*availability.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
