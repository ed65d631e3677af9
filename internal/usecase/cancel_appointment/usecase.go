package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

// UseCase отмена записи с освобождением слота
type UseCase struct {
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	reminders       ReminderCanceller
	notifier        Notifier
	txManager       TransactionManager
	policies        domain.PolicyConfig
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	reminders ReminderCanceller,
	notifier Notifier,
	txManager TransactionManager,
	policies domain.PolicyConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		reminders:       reminders,
		notifier:        notifier,
		txManager:       txManager,
		policies:        policies,
		timeProvider:    clock.Real{},
		logger:          logger,
	}
}

// Execute отменяет запись. Оплаченная запись помечается REFUND_REQUIRED.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CancelAppointment: appointment=%d by user=%d (%s)", req.AppointmentID, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	reason := strings.TrimSpace(req.Reason)
	if req.AppointmentID <= 0 {
		return nil, ErrInvalidInput.WithMessage("appointment id is required")
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return nil, ErrInvalidInput.WithMessage("reason must not exceed %d characters", domain.MaxCancellationReasonLength)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 3. Отмена и освобождение слота в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
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
		if err := uc.policies.For(req.Actor.Role).Check(req.Actor, appt, now); err != nil {
			return err
		}

		appt.Status = domain.StatusCancelled
		appt.AppendNote(cancellationNote(req.Actor.Role, reason))
		if appt.PaymentStatus == domain.PaymentPaid {
			appt.PaymentStatus = domain.PaymentRefundRequired
		}

		if err := ReleaseSlot(txCtx, uc.slotRepo, appt); err != nil {
			return err
		}
		if err := uc.appointmentRepo.Update(txCtx, appt); err != nil {
			return apperrors.Internal("failed to update appointment", err)
		}

		result = appt
		return nil
	})
	if err != nil {
		uc.logger.Warn("CancelAppointment: appointment=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled", result.ID)

	// 4. После коммита: напоминание и уведомления
	if err := uc.reminders.Cancel(ctx, result.ID); err != nil {
		uc.logger.Warn("CancelAppointment: appointment id=%d: reminder not cancelled: %v", result.ID, err)
	}
	uc.notifier.AppointmentCancelled(ctx, result, reason)

	return result, nil
}

// ReleaseSlot возвращает занятый слот записи в AVAILABLE.
// Удалённый слот или слот в другом статусе пропускается.
func ReleaseSlot(ctx context.Context, slots SlotRepository, appt *domain.Appointment) error {
	if appt.SlotID == nil {
		return nil
	}
	slot, err := slots.GetByID(ctx, *appt.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil
		}
		return apperrors.Internal("failed to get slot", err)
	}
	if slot.Status != domain.SlotBooked {
		return nil
	}
	if err := slots.UpdateStatus(ctx, slot.ID, domain.SlotAvailable); err != nil {
		return apperrors.Internal("failed to release slot", err)
	}
	return nil
}

func cancellationNote(role domain.Role, reason string) string {
	if reason == "" {
		return fmt.Sprintf("%s by %s", notePrefix, role)
	}
	return fmt.Sprintf("%s by %s: %s", notePrefix, role, reason)
}
