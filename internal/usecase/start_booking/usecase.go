package start_booking

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase запись в окно приёма с онлайн-оплатой
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	payments        PaymentGateway
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	payments PaymentGateway,
	metrics Metrics,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		payments:        payments,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    clock.Real{},
		location:        location,
		logger:          logger,
	}
}

// Execute создаёт запись PENDING_PAYMENT и платёж у провайдера.
// Место в очереди назначается только после подтверждения оплаты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("StartBooking: patient=%d, schedule=%d", req.PatientID, req.ScheduleID)

	// 1. Валидация входных данных
	if req.PatientID <= 0 || req.ScheduleID <= 0 {
		return nil, ErrInvalidInput.WithMessage("patient id and schedule id are required")
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return nil, ErrInvalidInput.WithMessage("notes must not exceed %d characters", domain.MaxNotesLength)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		appt   *domain.Appointment
		doctor *domain.Doctor
	)

	// 3. Проверки окна и создание записи
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		schedule, err := uc.scheduleRepo.GetByID(txCtx, req.ScheduleID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return apperrors.Internal("failed to get schedule", err)
		}

		doctor, err = uc.userRepo.GetDoctorByID(txCtx, schedule.DoctorID)
		if err != nil {
			if errors.Is(err, userRepo.ErrDoctorNotFound) {
				return ErrDoctorNotFound
			}
			return apperrors.Internal("failed to get doctor", err)
		}

		confirmed, err := uc.appointmentRepo.CountBySchedule(txCtx, schedule.ID,
			[]domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusBooked})
		if err != nil {
			return apperrors.Internal("failed to count appointments", err)
		}

		// 3.1. Порядок проверок совпадает с причинами недоступности окна
		window := domain.BuildAvailabilityWindow(schedule, confirmed, true, now, uc.location)
		if !window.IsBookable {
			switch *window.DisabledReason {
			case domain.DisabledPast:
				return ErrScheduleInPast
			case domain.DisabledFull:
				return ErrScheduleFull.WithMessage("schedule %d is full", schedule.ID)
			}
		}
		if !uc.payments.IsConfigured() {
			return ErrPaymentNotConfigured
		}
		if !doctor.HasPrice() {
			return ErrPriceNotSet
		}

		// 3.2. Пациент
		if _, err := uc.userRepo.GetUserByID(txCtx, req.PatientID); err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrPatientNotFound
			}
			return apperrors.Internal("failed to get patient", err)
		}

		// 3.3. Запись в ожидании оплаты
		pending := &domain.Appointment{
			PatientID:     req.PatientID,
			DoctorID:      schedule.DoctorID,
			ScheduleID:    ptr.Ptr(schedule.ID),
			StartAt:       schedule.StartAt(uc.location),
			EndAt:         schedule.EndAt(uc.location),
			Status:        domain.StatusPendingPayment,
			Notes:         req.Notes,
			PaymentStatus: domain.PaymentPending,
			AmountCents:   ptr.Ptr(doctor.ConsultationFeeCents),
		}
		if doctor.Currency != "" {
			pending.Currency = ptr.Ptr(doctor.Currency)
		}

		appt, err = uc.appointmentRepo.Create(txCtx, pending)
		if err != nil {
			return apperrors.Internal("failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		uc.observe(err)
		uc.logger.Warn("StartBooking: patient=%d, schedule=%d: %v", req.PatientID, req.ScheduleID, err)
		return nil, err
	}

	// 4. Платёж у провайдера
	intent, err := uc.payments.CreatePaymentIntent(ctx, payment.PaymentIntentParams{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		AmountCents:   doctor.ConsultationFeeCents,
		Currency:      doctor.Currency,
		Description:   fmt.Sprintf("Appointment #%d", appt.ID),
	})
	if err != nil {
		uc.logger.Error("StartBooking: appointment id=%d: failed to create payment intent: %v", appt.ID, err)
		uc.abandon(ctx, appt)
		uc.observe(ErrPaymentUnavailable)
		return nil, ErrPaymentUnavailable
	}

	// 5. Сохраняем ID платежа для сопоставления с вебхуком
	appt.PaymentIntentID = ptr.Ptr(intent.ID)
	if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
		uc.logger.Error("StartBooking: appointment id=%d: failed to store payment intent %s: %v", appt.ID, intent.ID, err)
		uc.observe(err)
		return nil, apperrors.Internal("failed to store payment intent", err)
	}
	uc.observe(nil)

	uc.logger.Info("StartBooking: appointment id=%d awaits payment %s", appt.ID, intent.ID)
	return &Response{Appointment: appt, ClientSecret: intent.ClientSecret}, nil
}

// abandon отменяет запись, для которой не удалось создать платёж
func (uc *UseCase) abandon(ctx context.Context, appt *domain.Appointment) {
	appt.Status = domain.StatusCancelled
	appt.PaymentStatus = domain.PaymentNone
	appt.AppendNote(paymentFailedNote)
	if err := uc.appointmentRepo.Update(ctx, appt); err != nil {
		uc.logger.Error("StartBooking: appointment id=%d: failed to cancel after payment error: %v", appt.ID, err)
	}
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
	case apperrors.IsKind(err, apperrors.KindInternal), apperrors.IsKind(err, apperrors.KindServiceUnavailable):
		outcome = "error"
	default:
		outcome = "rejected"
	}
	uc.metrics.ObserveBooking(metricKind, outcome)
}
