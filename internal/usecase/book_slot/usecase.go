package book_slot

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const metricKind = "slot"

// UseCase запись пациента в сгенерированный слот
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	exceptionRepo   ExceptionRepository
	userRepo        UserRepository
	reminders       ReminderScheduler
	notifier        Notifier
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
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
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		exceptionRepo:   exceptionRepo,
		userRepo:        userRepo,
		reminders:       reminders,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    clock.Real{},
		location:        location,
		logger:          logger,
	}
}

// Execute создаёт запись PENDING и переводит слот в BOOKED в одной транзакции.
// Слот читается с блокировкой строки, поэтому из двух одновременных запросов на один слот
// успешен ровно один; второй получает Conflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("BookSlot: patient=%d, slot=%d", req.PatientID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 3. Проверки и запись в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Слот с блокировкой (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return apperrors.Internal("failed to get slot", err)
		}

		if slot.Status != domain.SlotAvailable {
			return ErrSlotNotAvailable.WithMessage("slot %d is %s", slot.ID, slot.Status)
		}
		if !slot.StartAt.After(now) {
			return ErrSlotInPast
		}

		// 3.2. Исключения UNAVAILABLE на дату слота
		blocked, err := uc.blockedByException(txCtx, slot)
		if err != nil {
			return err
		}
		if blocked {
			return ErrSlotNotAvailable.WithMessage("doctor is unavailable at this time")
		}

		// 3.3. Пациент
		if _, err := uc.userRepo.GetUserByID(txCtx, req.PatientID); err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrPatientNotFound
			}
			return apperrors.Internal("failed to get patient", err)
		}

		// 3.4. Запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			PatientID:      req.PatientID,
			DoctorID:       slot.DoctorID,
			AvailabilityID: slot.AvailabilityID,
			SlotID:         ptr.Ptr(slot.ID),
			StartAt:        slot.StartAt,
			EndAt:          slot.EndAt,
			Status:         domain.StatusPending,
			Notes:          req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotAlreadyTaken) {
				return ErrSlotNotAvailable.WithMessage("slot %d is already taken", slot.ID)
			}
			return apperrors.Internal("failed to create appointment", err)
		}

		// 3.5. Слот занят
		if err := uc.slotRepo.UpdateStatus(txCtx, slot.ID, domain.SlotBooked); err != nil {
			return apperrors.Internal("failed to book slot", err)
		}

		result = created
		return nil
	})
	if err != nil {
		uc.observe(err)
		uc.logger.Warn("BookSlot: patient=%d, slot=%d: %v", req.PatientID, req.SlotID, err)
		return nil, err
	}
	uc.observe(nil)

	uc.logger.Info("BookSlot: created appointment id=%d", result.ID)

	// 4. После коммита: напоминание и уведомления, ошибки не влияют на результат
	if err := uc.reminders.Schedule(ctx, result); err != nil {
		uc.logger.Warn("BookSlot: appointment id=%d: reminder not scheduled: %v", result.ID, err)
	}
	uc.notifier.AppointmentCreated(ctx, result)

	return result, nil
}

func (uc *UseCase) blockedByException(ctx context.Context, slot *domain.Slot) (bool, error) {
	day := slot.StartAt.In(uc.location)
	unavailable := domain.ExceptionUnavailable
	exceptions, err := uc.exceptionRepo.List(ctx, domain.ExceptionFilter{
		DoctorID:      ptr.Ptr(slot.DoctorID),
		IncludeGlobal: true,
		From:          &day,
		To:            &day,
		Type:          &unavailable,
	})
	if err != nil {
		return false, apperrors.Internal("failed to list schedule exceptions", err)
	}
	return domain.SlotBlockedByExceptions(slot.StartAt, slot.EndAt, slot.DoctorID, exceptions, uc.location), nil
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
