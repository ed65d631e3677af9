package get_slot_template

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type TemplateService interface {
	Get(ctx context.Context, doctorID int64) (*domain.SlotTemplate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
