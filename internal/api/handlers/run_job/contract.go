package run_job

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/jobs"
)

type JobRunner interface {
	Run(ctx context.Context, name string) (*jobs.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
