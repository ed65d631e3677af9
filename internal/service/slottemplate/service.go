package slottemplate

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	templateRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slottemplate"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

var ErrAccessDenied = apperrors.Forbidden("ACCESS_DENIED", "only the doctor or an admin can change the slot template")

// TemplateRepository интерфейс репозитория шаблонов слотов
type TemplateRepository interface {
	GetByDoctorID(ctx context.Context, doctorID int64) (*domain.SlotTemplate, error)
	Upsert(ctx context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service шаблоны нарезки слотов
type Service struct {
	templateRepo TemplateRepository
	logger       Logger
}

func NewService(templateRepo TemplateRepository, logger Logger) *Service {
	return &Service{templateRepo: templateRepo, logger: logger}
}

// Get возвращает шаблон врача или значения по умолчанию, если врач его не настраивал
func (s *Service) Get(ctx context.Context, doctorID int64) (*domain.SlotTemplate, error) {
	t, err := s.templateRepo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			return domain.DefaultSlotTemplate(doctorID), nil
		}
		s.logger.Error("GetSlotTemplate: doctor=%d: %v", doctorID, err)
		return nil, apperrors.Internal("failed to get slot template", err)
	}
	return t, nil
}

// Upsert сохраняет шаблон. Уже созданные слоты не меняются.
func (s *Service) Upsert(ctx context.Context, actor domain.Actor, t *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	if !actor.CanManageDoctor(t.DoctorID) {
		s.logger.Warn("UpsertSlotTemplate: user=%d cannot manage doctor=%d", actor.UserID, t.DoctorID)
		return nil, ErrAccessDenied
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.templateRepo.Upsert(ctx, t)
	if err != nil {
		s.logger.Error("UpsertSlotTemplate: doctor=%d: %v", t.DoctorID, err)
		return nil, apperrors.Internal("failed to save slot template", err)
	}

	s.logger.Info("UpsertSlotTemplate: doctor=%d, duration=%d, buffer=%d, advance=%d",
		saved.DoctorID, saved.DurationMinutes, saved.BufferMinutes, saved.AdvanceBookingDays)
	return saved, nil
}
