package jobs

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/joblock"
)

// Имена задач
const (
	JobReminders = "reminders"
	JobSlots     = "slots"
	JobArchive   = "archive"
)

var ErrUnknownJob = apperrors.NotFound("JOB_NOT_FOUND", "unknown job")

// Result итог запуска задачи
type Result struct {
	Job       string `json:"job"`
	Processed int    `json:"processed"`
	// Skipped задача уже выполняется другим экземпляром
	Skipped bool `json:"skipped"`
}

// Runner запускает зарегистрированные задачи под распределённой блокировкой
type Runner struct {
	locker Locker
	ttl    time.Duration
	jobs   map[string]Job
	logger Logger
}

func NewRunner(locker Locker, ttl time.Duration, logger Logger) *Runner {
	return &Runner{
		locker: locker,
		ttl:    ttl,
		jobs:   make(map[string]Job),
		logger: logger,
	}
}

// Register добавляет задачу под именем name
func (r *Runner) Register(name string, job Job) {
	r.jobs[name] = job
}

// Names имена зарегистрированных задач по алфавиту
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run выполняет задачу name. Если задачу держит другой экземпляр, возвращает Skipped без ошибки.
func (r *Runner) Run(ctx context.Context, name string) (*Result, error) {
	job, ok := r.jobs[name]
	if !ok {
		return nil, ErrUnknownJob.WithMessage("unknown job %q", name)
	}

	result := &Result{Job: name}
	start := time.Now()

	err := r.locker.Run(ctx, name, r.ttl, func(ctx context.Context) error {
		processed, err := job(ctx)
		result.Processed = processed
		return err
	})
	if errors.Is(err, joblock.ErrLocked) {
		r.logger.Info("Job %s: skipped, lock is held by another instance", name)
		result.Skipped = true
		return result, nil
	}
	if err != nil {
		r.logger.Error("Job %s: failed after %s: %v", name, time.Since(start), err)
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal("job "+name+" failed", err)
	}

	r.logger.Info("Job %s: done in %s, processed=%d", name, time.Since(start), result.Processed)
	return result, nil
}
