package availability

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

// Service управление рабочим временем врачей
type Service struct {
	availabilityRepo AvailabilityRepository
	slotRepo         SlotRepository
	appointmentRepo  AppointmentRepository
	doctorLocker     DoctorLocker
	generator        SlotGenerator
	txManager        TransactionManager
	timeProvider     TimeProvider
	location         *time.Location
	logger           Logger
}

// NewService создает новый экземпляр сервиса окон доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	doctorLocker DoctorLocker,
	generator SlotGenerator,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		appointmentRepo:  appointmentRepo,
		doctorLocker:     doctorLocker,
		generator:        generator,
		txManager:        txManager,
		timeProvider:     clock.Real{},
		location:         location,
		logger:           logger,
	}
}

// Create сохраняет окно и нарезает его на слоты.
// Проверка пересечений и вставка выполняются под блокировкой строки врача.
func (s *Service) Create(ctx context.Context, actor domain.Actor, a *domain.Availability) (*Result, error) {
	s.logger.Info("CreateAvailability: doctor=%d, recurring=%t, by user=%d", a.DoctorID, a.IsRecurring, actor.UserID)

	// 1. Валидация
	if err := a.Validate(); err != nil {
		s.logger.Warn("CreateAvailability: validation failed: %v", err)
		return nil, err
	}
	if !actor.CanManageDoctor(a.DoctorID) {
		return nil, ErrAccessDenied
	}

	// 2. Проверка пересечений и вставка в одной транзакции
	var created *domain.Availability
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.lockDoctor(txCtx, a.DoctorID); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, a, 0); err != nil {
			return err
		}

		saved, err := s.availabilityRepo.Create(txCtx, a)
		if err != nil {
			return apperrors.Internal("failed to create availability", err)
		}
		created = saved
		return nil
	})
	if err != nil {
		s.logger.Warn("CreateAvailability: doctor=%d: %v", a.DoctorID, err)
		return nil, err
	}

	// 3. Генерация слотов после коммита
	slots := s.generate(ctx, created.ID)

	s.logger.Info("CreateAvailability: created availability id=%d with %d slots", created.ID, slots)
	return &Result{Availability: created, SlotsCreated: slots}, nil
}

// Update заменяет параметры окна.
// Свободные будущие слоты окна удаляются и генерируются заново, занятые остаются.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, a *domain.Availability) (*Result, error) {
	s.logger.Info("UpdateAvailability: id=%d, by user=%d", id, actor.UserID)

	var updated *domain.Availability
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.get(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.CanManageDoctor(existing.DoctorID) {
			return ErrAccessDenied
		}

		// Врача окна сменить нельзя
		a.ID = id
		a.DoctorID = existing.DoctorID
		a.CreatedAt = existing.CreatedAt
		if err := a.Validate(); err != nil {
			return err
		}

		if err := s.lockDoctor(txCtx, a.DoctorID); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, a, id); err != nil {
			return err
		}

		if err := s.availabilityRepo.Update(txCtx, a); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			return apperrors.Internal("failed to update availability", err)
		}

		now := s.timeProvider.Now()
		removed, err := s.slotRepo.DeleteUnbookedByAvailability(txCtx, id, &now)
		if err != nil {
			return apperrors.Internal("failed to delete stale slots", err)
		}
		s.logger.Info("UpdateAvailability: removed %d unbooked slots of availability id=%d", removed, id)

		updated = a
		return nil
	})
	if err != nil {
		s.logger.Warn("UpdateAvailability: id=%d: %v", id, err)
		return nil, err
	}

	slots := s.generate(ctx, id)

	s.logger.Info("UpdateAvailability: availability id=%d updated, %d slots created", id, slots)
	return &Result{Availability: updated, SlotsCreated: slots}, nil
}

// Delete удаляет окно вместе со свободными слотами.
// Пока на окно ссылается хотя бы одна неотменённая запись, удаление запрещено.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("DeleteAvailability: id=%d, by user=%d", id, actor.UserID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.get(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.CanManageDoctor(existing.DoctorID) {
			return ErrAccessDenied
		}

		held, err := s.appointmentRepo.CountByAvailability(txCtx, id, domain.NonCancelledAppointmentStatuses)
		if err != nil {
			return apperrors.Internal("failed to count appointments", err)
		}
		if held > 0 {
			return ErrInUse.WithMessage("availability %d has %d non-cancelled appointments", id, held)
		}

		if _, err := s.slotRepo.DeleteUnbookedByAvailability(txCtx, id, nil); err != nil {
			return apperrors.Internal("failed to delete slots", err)
		}
		if err := s.availabilityRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			return apperrors.Internal("failed to delete availability", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("DeleteAvailability: id=%d: %v", id, err)
		return err
	}

	s.logger.Info("DeleteAvailability: availability id=%d deleted", id)
	return nil
}

// GetByID возвращает окно по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	return s.get(ctx, id)
}

// ListByDoctor возвращает все окна врача
func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Availability, error) {
	list, err := s.availabilityRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("ListAvailabilities: doctor=%d: %v", doctorID, err)
		return nil, apperrors.Internal("failed to list availabilities", err)
	}
	return list, nil
}

// Regenerate догенерирует слоты окна вручную
func (s *Service) Regenerate(ctx context.Context, actor domain.Actor, id int64) (int, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !actor.CanManageDoctor(existing.DoctorID) {
		return 0, ErrAccessDenied
	}
	return s.generator.GenerateForAvailability(ctx, id)
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Availability, error) {
	a, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("GetAvailability: id=%d: %v", id, err)
		return nil, apperrors.Internal("failed to get availability", err)
	}
	return a, nil
}

func (s *Service) lockDoctor(ctx context.Context, doctorID int64) error {
	if err := s.doctorLocker.LockDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, userRepo.ErrDoctorNotFound) {
			return ErrDoctorNotFound
		}
		return apperrors.Internal("failed to lock doctor", err)
	}
	return nil
}

// checkOverlap ищет пересечение с другими окнами врача, selfID исключается из проверки
func (s *Service) checkOverlap(ctx context.Context, a *domain.Availability, selfID int64) error {
	existing, err := s.availabilityRepo.ListByDoctor(ctx, a.DoctorID)
	if err != nil {
		return apperrors.Internal("failed to list availabilities", err)
	}
	for _, other := range existing {
		if other.ID == selfID {
			continue
		}
		if a.Overlaps(other, s.location) {
			return ErrOverlap.WithMessage("availability overlaps existing availability %d", other.ID)
		}
	}
	return nil
}

// generate ошибки генерации не откатывают сохранённое окно, слоты догенерирует периодическая задача
func (s *Service) generate(ctx context.Context, availabilityID int64) int {
	created, err := s.generator.GenerateForAvailability(ctx, availabilityID)
	if err != nil {
		s.logger.Error("availability id=%d: slot generation failed: %v", availabilityID, err)
		return 0
	}
	return created
}
