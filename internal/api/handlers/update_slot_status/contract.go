package update_slot_status

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type SlotService interface {
	SetSlotStatus(ctx context.Context, actor domain.Actor, slotID int64, status domain.SlotStatus) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
