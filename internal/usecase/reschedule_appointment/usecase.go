package reschedule_appointment

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase перенос записи в другой слот
type UseCase struct {
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	exceptionRepo   ExceptionRepository
	reminders       ReminderScheduler
	notifier        Notifier
	txManager       TransactionManager
	policies        domain.PolicyConfig
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	exceptionRepo ExceptionRepository,
	reminders ReminderScheduler,
	notifier Notifier,
	txManager TransactionManager,
	policies domain.PolicyConfig,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		exceptionRepo:   exceptionRepo,
		reminders:       reminders,
		notifier:        notifier,
		txManager:       txManager,
		policies:        policies,
		timeProvider:    clock.Real{},
		location:        location,
		logger:          logger,
	}
}

// Execute переносит запись: старый слот освобождается, новый занимается, всё в одной транзакции.
// При любой ошибке ни один из слотов не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d -> slot=%d by user=%d (%s)",
		req.AppointmentID, req.NewSlotID, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 || req.NewSlotID <= 0 {
		return nil, ErrInvalidInput.WithMessage("appointment id and newSlotId are required")
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 3. Перенос в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Запись с блокировкой
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return apperrors.Internal("failed to get appointment", err)
		}

		if appt.Status.IsTerminal() {
			return domain.ErrTerminalStatus.WithMessage("appointment is already %s", appt.Status)
		}
		if appt.ScheduleID != nil {
			return ErrQueueAppointment
		}
		if err := uc.policies.For(req.Actor.Role).Check(req.Actor, appt, now); err != nil {
			return err
		}

		// 3.2. Новый слот с блокировкой
		slot, err := uc.slotRepo.GetByID(txCtx, req.NewSlotID)
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
			return ErrSlotNotAvailable.WithMessage("slot %d has already started", slot.ID)
		}
		blocked, err := uc.blockedByException(txCtx, slot)
		if err != nil {
			return err
		}
		if blocked {
			return ErrSlotNotAvailable.WithMessage("doctor is unavailable at this time")
		}
		if slot.DoctorID != appt.DoctorID {
			return ErrDoctorMismatch
		}

		// 3.3. Освобождаем старый слот и занимаем новый
		if err := cancel_appointment.ReleaseSlot(txCtx, uc.slotRepo, appt); err != nil {
			return err
		}
		if err := uc.slotRepo.UpdateStatus(txCtx, slot.ID, domain.SlotBooked); err != nil {
			return apperrors.Internal("failed to book slot", err)
		}

		// 3.4. Обновляем запись
		appt.SlotID = ptr.Ptr(slot.ID)
		appt.AvailabilityID = slot.AvailabilityID
		appt.StartAt = slot.StartAt
		appt.EndAt = slot.EndAt
		if err := uc.appointmentRepo.Update(txCtx, appt); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotAlreadyTaken) {
				return ErrSlotNotAvailable.WithMessage("slot %d is already taken", slot.ID)
			}
			return apperrors.Internal("failed to update appointment", err)
		}

		result = appt
		return nil
	})
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: appointment=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to slot id=%d", result.ID, req.NewSlotID)

	// 4. После коммита: напоминание и уведомления
	if err := uc.reminders.Reschedule(ctx, result); err != nil {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d: reminder not rescheduled: %v", result.ID, err)
	}
	uc.notifier.AppointmentRescheduled(ctx, result)

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
