package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
)

type UseCase interface {
	Execute(ctx context.Context, req *confirm_payment.Request) (*confirm_payment.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
