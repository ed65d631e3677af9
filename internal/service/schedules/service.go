package schedules

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

// blockingStatuses записи, которые занимают место в окне и не дают его удалить
var blockingStatuses = []domain.AppointmentStatus{
	domain.StatusConfirmed,
	domain.StatusBooked,
	domain.StatusPendingPayment,
}

// Service окна приёма с ограничением числа пациентов
type Service struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	payments        PaymentGateway
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

func NewService(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	payments PaymentGateway,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		payments:        payments,
		txManager:       txManager,
		timeProvider:    clock.Real{},
		location:        location,
		logger:          logger,
	}
}

// CreateSchedule создаёт окно приёма.
// Проверка дублей и пересечений выполняется в транзакции под блокировкой строки врача.
func (s *Service) CreateSchedule(ctx context.Context, actor domain.Actor, sc *domain.Schedule) (*domain.Schedule, error) {
	s.logger.Info("CreateSchedule: doctor=%d, date=%s, %s-%s, max=%d",
		sc.DoctorID, sc.Date.Format(domain.DateFormat), sc.StartTime, sc.EndTime, sc.MaxPatients)

	if err := sc.Validate(); err != nil {
		s.logger.Warn("CreateSchedule: validation failed: %v", err)
		return nil, err
	}
	if !actor.CanManageDoctor(sc.DoctorID) {
		return nil, ErrAccessDenied
	}

	var created *domain.Schedule
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.doctorRepo.LockDoctor(txCtx, sc.DoctorID); err != nil {
			if errors.Is(err, userRepo.ErrDoctorNotFound) {
				return ErrDoctorNotFound
			}
			return apperrors.Internal("failed to lock doctor", err)
		}

		existing, err := s.scheduleRepo.ListByDoctorAndDate(txCtx, sc.DoctorID, sc.Date)
		if err != nil {
			return apperrors.Internal("failed to list schedules", err)
		}
		for _, other := range existing {
			if other.SameWindow(sc) {
				return ErrScheduleExists
			}
			if other.Overlaps(sc) {
				return ErrScheduleOverlaps.WithMessage("schedule overlaps %s-%s (id=%d)", other.StartTime, other.EndTime, other.ID)
			}
		}

		saved, err := s.scheduleRepo.Create(txCtx, sc)
		if err != nil {
			// гонка, которую не поймала проверка выше, ловит уникальный индекс
			if errors.Is(err, scheduleRepo.ErrScheduleExists) {
				return ErrScheduleExists
			}
			return apperrors.Internal("failed to create schedule", err)
		}
		created = saved
		return nil
	})
	if err != nil {
		s.logger.Warn("CreateSchedule: doctor=%d: %v", sc.DoctorID, err)
		return nil, err
	}

	s.logger.Info("CreateSchedule: created schedule id=%d", created.ID)
	return created, nil
}

// GetByID возвращает окно приёма
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	sc, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetSchedule: id=%d: %v", id, err)
		return nil, apperrors.Internal("failed to get schedule", err)
	}
	return sc, nil
}

// GetAvailabilityWindows окна врача на дату с загрузкой и причиной недоступности
func (s *Service) GetAvailabilityWindows(ctx context.Context, doctorID int64, date time.Time) ([]domain.AvailabilityWindow, error) {
	doctor, err := s.doctorRepo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, userRepo.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("GetAvailabilityWindows: doctor=%d: %v", doctorID, err)
		return nil, apperrors.Internal("failed to get doctor", err)
	}

	list, err := s.scheduleRepo.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("GetAvailabilityWindows: doctor=%d, date=%s: %v", doctorID, date.Format(domain.DateFormat), err)
		return nil, apperrors.Internal("failed to list schedules", err)
	}

	paymentReady := s.payments.IsConfigured() && doctor.HasPrice()
	now := s.timeProvider.Now()

	windows := make([]domain.AvailabilityWindow, 0, len(list))
	for _, sc := range list {
		confirmed, err := s.appointmentRepo.CountBySchedule(ctx, sc.ID, []domain.AppointmentStatus{domain.StatusConfirmed, domain.StatusBooked})
		if err != nil {
			s.logger.Error("GetAvailabilityWindows: schedule id=%d: %v", sc.ID, err)
			return nil, apperrors.Internal("failed to count appointments", err)
		}
		windows = append(windows, domain.BuildAvailabilityWindow(sc, confirmed, paymentReady, now, s.location))
	}

	return windows, nil
}

// DeleteSchedule удаляет окно, если в нём нет подтверждённых записей и записей в ожидании оплаты
func (s *Service) DeleteSchedule(ctx context.Context, actor domain.Actor, id int64) error {
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		sc, err := s.scheduleRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return apperrors.Internal("failed to get schedule", err)
		}
		if !actor.CanManageDoctor(sc.DoctorID) {
			return ErrAccessDenied
		}

		n, err := s.appointmentRepo.CountBySchedule(txCtx, id, blockingStatuses)
		if err != nil {
			return apperrors.Internal("failed to count appointments", err)
		}
		if n > 0 {
			return ErrScheduleInUse.WithMessage("schedule %d has %d confirmed or pending-payment appointments", id, n)
		}

		if err := s.scheduleRepo.Delete(txCtx, id); err != nil {
			return apperrors.Internal("failed to delete schedule", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("DeleteSchedule: id=%d: %v", id, err)
		return err
	}

	s.logger.Info("DeleteSchedule: id=%d deleted", id)
	return nil
}
