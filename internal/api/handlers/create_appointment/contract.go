package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/book_freeform"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

type SlotBooker interface {
	Execute(ctx context.Context, req *book_slot.Request) (*domain.Appointment, error)
}

type FreeformBooker interface {
	Execute(ctx context.Context, req *book_freeform.Request) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
