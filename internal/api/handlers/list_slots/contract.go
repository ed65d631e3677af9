package list_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

type SlotService interface {
	ListSlots(ctx context.Context, req slots.ListRequest) ([]slots.SlotView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
