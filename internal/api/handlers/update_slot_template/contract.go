package update_slot_template

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type TemplateService interface {
	Upsert(ctx context.Context, actor domain.Actor, t *domain.SlotTemplate) (*domain.SlotTemplate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
