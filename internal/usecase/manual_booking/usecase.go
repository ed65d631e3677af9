package manual_booking

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase ручная запись в окно приёма
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
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
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	reminders ReminderScheduler,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
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

// Execute создаёт подтверждённую оплаченную запись с номером в очереди.
// Строка окна блокируется на время подсчёта мест, поэтому номера в очереди не повторяются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("ManualBooking: schedule=%d, patient=%d by user=%d", req.ScheduleID, req.PatientID, req.Actor.UserID)

	// 1. Проверка прав и входных данных
	if req.Actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	if req.ScheduleID <= 0 || req.PatientID <= 0 {
		return nil, ErrInvalidInput.WithMessage("scheduleId and patientId are required")
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return nil, ErrInvalidInput.WithMessage("notes must not exceed %d characters", domain.MaxNotesLength)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 3. Подсчёт мест и запись под блокировкой окна
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		schedule, err := uc.scheduleRepo.GetByID(txCtx, req.ScheduleID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return apperrors.Internal("failed to get schedule", err)
		}
		if !now.Before(schedule.EndAt(uc.location)) {
			return ErrScheduleInPast
		}

		confirmed, err := uc.appointmentRepo.CountBySchedule(txCtx, schedule.ID,
			[]domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusBooked})
		if err != nil {
			return apperrors.Internal("failed to count appointments", err)
		}
		if confirmed >= schedule.MaxPatients {
			return ErrScheduleFull.WithMessage("schedule %d is full", schedule.ID)
		}

		if _, err := uc.userRepo.GetUserByID(txCtx, req.PatientID); err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrPatientNotFound
			}
			return apperrors.Internal("failed to get patient", err)
		}
		doctor, err := uc.userRepo.GetDoctorByID(txCtx, schedule.DoctorID)
		if err != nil {
			if errors.Is(err, userRepo.ErrDoctorNotFound) {
				return ErrDoctorNotFound
			}
			return apperrors.Internal("failed to get doctor", err)
		}

		appt := &domain.Appointment{
			PatientID:     req.PatientID,
			DoctorID:      schedule.DoctorID,
			ScheduleID:    ptr.Ptr(schedule.ID),
			StartAt:       schedule.StartAt(uc.location),
			EndAt:         schedule.EndAt(uc.location),
			Status:        domain.StatusConfirmed,
			Notes:         req.Notes,
			PaymentStatus: domain.PaymentPaid,
			QueueNumber:   ptr.Ptr(confirmed + 1),
		}
		if doctor.HasPrice() {
			appt.AmountCents = ptr.Ptr(doctor.ConsultationFeeCents)
		}
		if doctor.Currency != "" {
			appt.Currency = ptr.Ptr(doctor.Currency)
		}

		result, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			return apperrors.Internal("failed to create appointment", err)
		}
		return nil
	})
	uc.observe(err)
	if err != nil {
		uc.logger.Warn("ManualBooking: schedule=%d, patient=%d: %v", req.ScheduleID, req.PatientID, err)
		return nil, err
	}

	uc.logger.Info("ManualBooking: appointment id=%d, queue number %d", result.ID, *result.QueueNumber)

	// 4. После коммита: напоминание и уведомления
	if err := uc.reminders.Schedule(ctx, result); err != nil {
		uc.logger.Warn("ManualBooking: appointment id=%d: reminder not scheduled: %v", result.ID, err)
	}
	uc.notifier.AppointmentConfirmed(ctx, result)

	return result, nil
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
