package book_freeform

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const metricKind = "freeform"

// UseCase запись на произвольное время внутри окна доступности врача
type UseCase struct {
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	exceptionRepo    ExceptionRepository
	userRepo         UserRepository
	reminders        ReminderScheduler
	notifier         Notifier
	metrics          Metrics
	txManager        TransactionManager
	timeProvider     TimeProvider
	location         *time.Location
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	exceptionRepo ExceptionRepository,
	userRepo UserRepository,
	reminders ReminderScheduler,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		exceptionRepo:    exceptionRepo,
		userRepo:         userRepo,
		reminders:        reminders,
		notifier:         notifier,
		metrics:          metrics,
		txManager:        txManager,
		timeProvider:     clock.Real{},
		location:         location,
		logger:           logger,
	}
}

// Execute создаёт запись PENDING на интервал [StartAt, EndAt).
// Проверки пересечений выполняются под блокировкой строки врача.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("BookFreeForm: patient=%d, doctor=%d, %s - %s", req.PatientID, req.DoctorID,
		req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("BookFreeForm: validation failed: %v", err)
		uc.observe(err)
		return nil, err
	}

	var result *domain.Appointment

	// 3. Проверки и запись в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Блокировка врача
		if err := uc.userRepo.LockDoctor(txCtx, req.DoctorID); err != nil {
			if errors.Is(err, userRepo.ErrDoctorNotFound) {
				return ErrDoctorNotFound
			}
			return apperrors.Internal("failed to lock doctor", err)
		}

		// 3.2. Пациент
		if _, err := uc.userRepo.GetUserByID(txCtx, req.PatientID); err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrPatientNotFound
			}
			return apperrors.Internal("failed to get patient", err)
		}

		// 3.3. Интервал внутри одного из окон доступности
		availability, err := uc.findAvailability(txCtx, req)
		if err != nil {
			return err
		}
		if availability == nil {
			return ErrOutsideAvailability
		}

		// 3.4. Исключения UNAVAILABLE
		blocked, err := uc.blockedByException(txCtx, req)
		if err != nil {
			return err
		}
		if blocked {
			return ErrDoctorUnavailable
		}

		// 3.5. Пересечение с другими записями врача
		overlapping, err := uc.appointmentRepo.HasOverlapping(txCtx, req.DoctorID, req.StartAt, req.EndAt, nil)
		if err != nil {
			return apperrors.Internal("failed to check overlapping appointments", err)
		}
		if overlapping {
			return ErrTimeConflict
		}

		// 3.6. Запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			PatientID:      req.PatientID,
			DoctorID:       req.DoctorID,
			AvailabilityID: ptr.Ptr(availability.ID),
			StartAt:        req.StartAt,
			EndAt:          req.EndAt,
			Status:         domain.StatusPending,
			Notes:          req.Notes,
		})
		if err != nil {
			return apperrors.Internal("failed to create appointment", err)
		}

		result = created
		return nil
	})
	uc.observe(err)
	if err != nil {
		uc.logger.Warn("BookFreeForm: patient=%d, doctor=%d: %v", req.PatientID, req.DoctorID, err)
		return nil, err
	}

	uc.logger.Info("BookFreeForm: created appointment id=%d", result.ID)

	// 4. После коммита: напоминание и уведомления
	if err := uc.reminders.Schedule(ctx, result); err != nil {
		uc.logger.Warn("BookFreeForm: appointment id=%d: reminder not scheduled: %v", result.ID, err)
	}
	uc.notifier.AppointmentCreated(ctx, result)

	return result, nil
}

func (uc *UseCase) findAvailability(ctx context.Context, req *Request) (*domain.Availability, error) {
	availabilities, err := uc.availabilityRepo.ListByDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, apperrors.Internal("failed to list availabilities", err)
	}
	for _, a := range availabilities {
		if a.Contains(req.StartAt, req.EndAt, uc.location) {
			return a, nil
		}
	}
	return nil, nil
}

func (uc *UseCase) blockedByException(ctx context.Context, req *Request) (bool, error) {
	from := req.StartAt.In(uc.location)
	to := req.EndAt.In(uc.location)
	unavailable := domain.ExceptionUnavailable
	exceptions, err := uc.exceptionRepo.List(ctx, domain.ExceptionFilter{
		DoctorID:      ptr.Ptr(req.DoctorID),
		IncludeGlobal: true,
		From:          &from,
		To:            &to,
		Type:          &unavailable,
	})
	if err != nil {
		return false, apperrors.Internal("failed to list schedule exceptions", err)
	}
	return domain.SlotBlockedByExceptions(req.StartAt, req.EndAt, req.DoctorID, exceptions, uc.location), nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case apperrors.IsKind(err, apperrors.KindConflict):
		outcome = "conflict"
	case apperrors.IsKind(err, apperrors.KindInternal):
		outcome = "error"
	default:
		outcome = "rejected"
	}
	uc.metrics.ObserveBooking(metricKind, outcome)
}
