package update_status

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

// UseCase смена статуса записи врачом или администратором
type UseCase struct {
	appointmentRepo AppointmentRepository
	canceller       Canceller
	reminders       ReminderService
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	canceller Canceller,
	reminders ReminderService,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		canceller:       canceller,
		reminders:       reminders,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    clock.Real{},
		logger:          logger,
	}
}

// Execute переводит запись в новый статус по правилам AssertValidStatusTransition.
// Отмена выполняется через Canceller, чтобы освободить слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("UpdateStatus: appointment=%d -> %s by user=%d (%s)",
		req.AppointmentID, req.Status, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if req.AppointmentID <= 0 {
		return nil, ErrInvalidInput.WithMessage("appointment id is required")
	}
	if !req.Status.IsValid() {
		return nil, domain.ErrInvalidStatus.WithMessage("unknown appointment status %q", req.Status)
	}
	if req.Actor.Role != domain.RoleDoctor && req.Actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}

	// 2. Отмена
	if req.Status == domain.StatusCancelled {
		return uc.canceller.Execute(ctx, &cancel_appointment.Request{
			Actor:         req.Actor,
			AppointmentID: req.AppointmentID,
			Reason:        req.Reason,
		})
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result   *domain.Appointment
		previous domain.AppointmentStatus
	)

	// 4. Переход статуса в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return apperrors.Internal("failed to get appointment", err)
		}

		if !req.Actor.CanManageDoctor(appt.DoctorID) {
			return ErrAccessDenied
		}
		if err := domain.AssertValidStatusTransition(appt.Status, req.Status, appt.StartAt, appt.EndAt, now); err != nil {
			return err
		}

		previous = appt.Status
		result = appt
		if appt.Status == req.Status {
			return nil
		}

		appt.Status = req.Status
		if err := uc.appointmentRepo.Update(txCtx, appt); err != nil {
			return apperrors.Internal("failed to update appointment", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("UpdateStatus: appointment=%d -> %s: %v", req.AppointmentID, req.Status, err)
		return nil, err
	}

	if previous == result.Status {
		return result, nil
	}

	uc.logger.Info("UpdateStatus: appointment id=%d %s -> %s", result.ID, previous, result.Status)

	// 5. После коммита: напоминание и уведомления
	switch {
	case result.Status.IsConfirmed() && !previous.IsConfirmed():
		if err := uc.reminders.Schedule(ctx, result); err != nil {
			uc.logger.Warn("UpdateStatus: appointment id=%d: reminder not scheduled: %v", result.ID, err)
		}
		uc.notifier.AppointmentConfirmed(ctx, result)
	case result.Status == domain.StatusCompleted || result.Status == domain.StatusNoShow:
		if err := uc.reminders.Cancel(ctx, result.ID); err != nil {
			uc.logger.Warn("UpdateStatus: appointment id=%d: reminder not cancelled: %v", result.ID, err)
		}
	}

	return result, nil
}
