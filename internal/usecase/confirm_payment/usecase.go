package confirm_payment

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase обработка вебхука платёжного провайдера
type UseCase struct {
	parser          WebhookParser
	idempotency     IdempotencyStore
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	reminders       ReminderScheduler
	notifier        Notifier
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	parser WebhookParser,
	idempotency IdempotencyStore,
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	reminders ReminderScheduler,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		parser:          parser,
		idempotency:     idempotency,
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		reminders:       reminders,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    clock.Real{},
		logger:          logger,
	}
}

// Execute проверяет подпись и применяет событие к записи.
// Повторная доставка того же события ничего не меняет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	now := uc.timeProvider.Now()

	// 1. Подпись и разбор события
	event, err := uc.parser.ParseWebhook(req.Payload, req.Signature, now)
	if err != nil {
		uc.logger.Warn("ConfirmPayment: rejected webhook: %v", err)
		switch {
		case errors.Is(err, payment.ErrNotConfigured):
			return nil, ErrNotConfigured
		case errors.Is(err, payment.ErrInvalidEvent):
			return nil, ErrInvalidEvent
		default:
			return nil, ErrInvalidSignature
		}
	}

	result := &Result{EventID: event.ID, EventType: event.Type}

	switch event.Type {
	case payment.EventPaymentSucceeded, payment.EventPaymentFailed, payment.EventPaymentCanceled:
	default:
		uc.logger.Info("ConfirmPayment: event %s of type %s ignored", event.ID, event.Type)
		result.Outcome = OutcomeIgnored
		return result, nil
	}

	uc.logger.Info("ConfirmPayment: event %s (%s) for intent %s", event.ID, event.Type, event.Data.Object.ID)

	// 2. Дедупликация по ID события
	key := eventKeyPrefix + event.ID
	claimed, err := uc.idempotency.Claim(ctx, key, eventKeyTTL)
	if err != nil {
		uc.logger.Error("ConfirmPayment: event %s: failed to claim: %v", event.ID, err)
		return nil, apperrors.Internal("failed to claim webhook event", err)
	}
	if !claimed {
		uc.logger.Info("ConfirmPayment: event %s already processed", event.ID)
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	// 3. Применяем событие; при ошибке отметка снимается, чтобы провайдер мог повторить доставку
	appt, outcome, err := uc.apply(ctx, event)
	if err != nil {
		if relErr := uc.idempotency.Release(ctx, key); relErr != nil {
			uc.logger.Error("ConfirmPayment: event %s: failed to release key: %v", event.ID, relErr)
		}
		uc.observe(err)
		uc.logger.Error("ConfirmPayment: event %s: %v", event.ID, err)
		return nil, err
	}
	if outcome == OutcomeScheduleFull {
		uc.observe(ErrScheduleFull)
	} else {
		uc.observe(nil)
	}

	result.Outcome = outcome
	result.Appointment = appt

	// 4. После коммита: напоминание и уведомления
	switch outcome {
	case OutcomeConfirmed:
		if err := uc.reminders.Schedule(ctx, appt); err != nil {
			uc.logger.Warn("ConfirmPayment: appointment id=%d: reminder not scheduled: %v", appt.ID, err)
		}
		uc.notifier.AppointmentConfirmed(ctx, appt)
	case OutcomeScheduleFull:
		uc.notifier.AppointmentCancelled(ctx, appt, fullReason)
	case OutcomeCancelled:
		uc.notifier.AppointmentCancelled(ctx, appt, failedReason)
	}

	uc.logger.Info("ConfirmPayment: event %s: appointment id=%d %s", event.ID, appt.ID, outcome)
	return result, nil
}

func (uc *UseCase) apply(ctx context.Context, event *payment.Event) (*domain.Appointment, Outcome, error) {
	var (
		result  *domain.Appointment
		outcome Outcome
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.findAppointment(txCtx, &event.Data.Object)
		if err != nil {
			return err
		}
		result = appt

		if event.Type == payment.EventPaymentSucceeded {
			outcome, err = uc.confirm(txCtx, appt)
		} else {
			outcome, err = uc.fail(txCtx, appt)
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return result, outcome, nil
}

// findAppointment ищет запись по ID платежа, затем по metadata.appointmentId, и блокирует её
func (uc *UseCase) findAppointment(ctx context.Context, obj *payment.EventObject) (*domain.Appointment, error) {
	var id int64
	found, err := uc.appointmentRepo.GetByPaymentIntentID(ctx, obj.ID)
	switch {
	case err == nil:
		id = found.ID
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		metaID, ok := obj.AppointmentID()
		if !ok {
			return nil, ErrAppointmentNotFound.WithMessage("no appointment for payment intent %s", obj.ID)
		}
		id = metaID
	default:
		return nil, apperrors.Internal("failed to find appointment by payment intent", err)
	}

	appt, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound.WithMessage("appointment %d not found", id)
		}
		return nil, apperrors.Internal("failed to get appointment", err)
	}
	if appt.PaymentIntentID == nil {
		appt.PaymentIntentID = ptr.Ptr(obj.ID)
	}
	return appt, nil
}

// confirm назначает место в очереди, если в окне ещё есть места
func (uc *UseCase) confirm(ctx context.Context, appt *domain.Appointment) (Outcome, error) {
	switch {
	case appt.Status.IsConfirmed():
		return OutcomeIgnored, nil
	case appt.Status != domain.StatusPendingPayment:
		// Запись уже отменена (например, истекла), деньги нужно вернуть
		if appt.PaymentStatus == domain.PaymentRefundRequired {
			return OutcomeIgnored, nil
		}
		appt.PaymentStatus = domain.PaymentRefundRequired
		appt.AppendNote(lateNote)
		if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
			return "", apperrors.Internal("failed to update appointment", err)
		}
		uc.logger.Warn("ConfirmPayment: appointment id=%d is %s, refund required", appt.ID, appt.Status)
		return OutcomeRefund, nil
	}

	if appt.ScheduleID == nil {
		appt.Status = domain.StatusConfirmed
		appt.PaymentStatus = domain.PaymentPaid
	} else {
		schedule, err := uc.scheduleRepo.GetByID(ctx, *appt.ScheduleID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return "", ErrScheduleNotFound
			}
			return "", apperrors.Internal("failed to get schedule", err)
		}

		confirmed, err := uc.appointmentRepo.CountBySchedule(ctx, schedule.ID,
			[]domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusBooked})
		if err != nil {
			return "", apperrors.Internal("failed to count appointments", err)
		}

		if confirmed >= schedule.MaxPatients {
			appt.Status = domain.StatusCancelled
			appt.PaymentStatus = domain.PaymentRefundRequired
			appt.AppendNote(fullNote)
			if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
				return "", apperrors.Internal("failed to update appointment", err)
			}
			uc.logger.Warn("ConfirmPayment: schedule id=%d filled before payment of appointment id=%d", schedule.ID, appt.ID)
			return OutcomeScheduleFull, nil
		}

		appt.Status = domain.StatusConfirmed
		appt.PaymentStatus = domain.PaymentPaid
		appt.QueueNumber = ptr.Ptr(confirmed + 1)
	}

	if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
		return "", apperrors.Internal("failed to update appointment", err)
	}
	return OutcomeConfirmed, nil
}

// fail отменяет запись, ожидающую оплаты
func (uc *UseCase) fail(ctx context.Context, appt *domain.Appointment) (Outcome, error) {
	if appt.Status != domain.StatusPendingPayment {
		return OutcomeIgnored, nil
	}

	appt.Status = domain.StatusCancelled
	appt.PaymentStatus = domain.PaymentNone
	appt.AppendNote(failedNote)
	if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
		return "", apperrors.Internal("failed to update appointment", err)
	}
	return OutcomeCancelled, nil
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
