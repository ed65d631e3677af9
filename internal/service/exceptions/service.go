package exceptions

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	exceptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/exception"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

// Service исключения из расписания: выходные, отпуска, дополнительные часы
type Service struct {
	exceptionRepo ExceptionRepository
	slotRepo      SlotRepository
	generator     SlotGenerator
	txManager     TransactionManager
	logger        Logger
}

func NewService(
	exceptionRepo ExceptionRepository,
	slotRepo SlotRepository,
	generator SlotGenerator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		exceptionRepo: exceptionRepo,
		slotRepo:      slotRepo,
		generator:     generator,
		txManager:     txManager,
		logger:        logger,
	}
}

// Create сохраняет исключение. Для AVAILABLE сразу создаются слоты.
func (s *Service) Create(ctx context.Context, actor domain.Actor, e *domain.ScheduleException) (*Result, error) {
	if err := e.Validate(); err != nil {
		s.logger.Warn("CreateException: validation failed: %v", err)
		return nil, err
	}
	if !canManage(actor, e) {
		return nil, ErrAccessDenied
	}

	created, err := s.exceptionRepo.Create(ctx, e)
	if err != nil {
		s.logger.Error("CreateException: %v", err)
		return nil, apperrors.Internal("failed to create schedule exception", err)
	}

	slots := 0
	if created.Type == domain.ExceptionAvailable {
		slots, err = s.generator.GenerateForException(ctx, created.ID)
		if err != nil {
			s.logger.Error("CreateException: slot generation for exception id=%d failed: %v", created.ID, err)
			slots = 0
		}
	}

	s.logger.Info("CreateException: id=%d, type=%s, %s..%s, %d slots",
		created.ID, created.Type, created.DateFrom.Format(domain.DateFormat), created.DateTo.Format(domain.DateFormat), slots)
	return newResult(created, slots), nil
}

// Delete удаляет исключение. Свободные слоты исключения AVAILABLE удаляются, занятые остаются.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		e, err := s.exceptionRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
				return ErrExceptionNotFound
			}
			return apperrors.Internal("failed to get schedule exception", err)
		}
		if !canManage(actor, e) {
			return ErrAccessDenied
		}

		if e.Type == domain.ExceptionAvailable {
			removed, err := s.slotRepo.DeleteUnbookedByException(txCtx, id)
			if err != nil {
				return apperrors.Internal("failed to delete slots", err)
			}
			s.logger.Info("DeleteException: removed %d unbooked slots of exception id=%d", removed, id)
		}

		if err := s.exceptionRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
				return ErrExceptionNotFound
			}
			return apperrors.Internal("failed to delete schedule exception", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("DeleteException: id=%d: %v", id, err)
		return err
	}

	s.logger.Info("DeleteException: id=%d deleted", id)
	return nil
}

// List исключения врача (вместе с клинико-широкими) за период
func (s *Service) List(ctx context.Context, filter domain.ExceptionFilter) ([]*Result, error) {
	list, err := s.exceptionRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListExceptions: %v", err)
		return nil, apperrors.Internal("failed to list schedule exceptions", err)
	}

	result := make([]*Result, 0, len(list))
	for _, e := range list {
		result = append(result, newResult(e, 0))
	}
	return result, nil
}

// canManage клинико-широкие исключения меняет только администратор
func canManage(actor domain.Actor, e *domain.ScheduleException) bool {
	if e.DoctorID == nil {
		return actor.Role == domain.RoleAdmin
	}
	return actor.CanManageDoctor(*e.DoctorID)
}
