package slots

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	exceptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/exception"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
)

// Service генерация и управление слотами
type Service struct {
	availabilityRepo AvailabilityRepository
	slotRepo         SlotRepository
	templateRepo     TemplateRepository
	exceptionRepo    ExceptionRepository
	txManager        TransactionManager
	metrics          Metrics
	timeProvider     TimeProvider
	location         *time.Location
	logger           Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	availabilityRepo AvailabilityRepository,
	slotRepo SlotRepository,
	templateRepo TemplateRepository,
	exceptionRepo ExceptionRepository,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		templateRepo:     templateRepo,
		exceptionRepo:    exceptionRepo,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     clock.Real{},
		location:         location,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GenerateForAvailability создаёт недостающие будущие слоты окна доступности.
// Шаблон врача создаётся со значениями по умолчанию, если его ещё нет.
func (s *Service) GenerateForAvailability(ctx context.Context, availabilityID int64) (int, error) {
	availability, err := s.availabilityRepo.GetByID(ctx, availabilityID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			return 0, ErrAvailabilityNotFound
		}
		s.logger.Error("GenerateForAvailability: failed to get availability id=%d: %v", availabilityID, err)
		return 0, apperrors.Internal("failed to get availability", err)
	}

	tmpl, err := s.templateRepo.CreateIfMissing(ctx, domain.DefaultSlotTemplate(availability.DoctorID))
	if err != nil {
		s.logger.Error("GenerateForAvailability: failed to get template for doctor=%d: %v", availability.DoctorID, err)
		return 0, apperrors.Internal("failed to get slot template", err)
	}

	now := s.timeProvider.Now()
	candidates := Generate(GenerateInput{
		Availability: availability,
		Template:     tmpl,
		Now:          now,
		Location:     s.location,
	})

	created, err := s.persist(ctx, availability.DoctorID, candidates, now)
	if err != nil {
		s.logger.Error("GenerateForAvailability: availability id=%d: %v", availabilityID, err)
		return 0, err
	}

	s.logger.Info("GenerateForAvailability: availability id=%d, %d candidates, %d created",
		availabilityID, len(candidates), created)
	return created, nil
}

// GenerateForException создаёт слоты дополнительного рабочего времени.
// Для исключений UNAVAILABLE и клинико-широких исключений ничего не делает.
func (s *Service) GenerateForException(ctx context.Context, exceptionID int64) (int, error) {
	exception, err := s.exceptionRepo.GetByID(ctx, exceptionID)
	if err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			return 0, ErrExceptionNotFound
		}
		s.logger.Error("GenerateForException: failed to get exception id=%d: %v", exceptionID, err)
		return 0, apperrors.Internal("failed to get schedule exception", err)
	}

	if exception.Type != domain.ExceptionAvailable || exception.DoctorID == nil {
		return 0, nil
	}

	tmpl, err := s.templateRepo.CreateIfMissing(ctx, domain.DefaultSlotTemplate(*exception.DoctorID))
	if err != nil {
		s.logger.Error("GenerateForException: failed to get template for doctor=%d: %v", *exception.DoctorID, err)
		return 0, apperrors.Internal("failed to get slot template", err)
	}

	now := s.timeProvider.Now()
	candidates := GenerateForException(exception, tmpl, s.location)

	created, err := s.persist(ctx, *exception.DoctorID, candidates, now)
	if err != nil {
		s.logger.Error("GenerateForException: exception id=%d: %v", exceptionID, err)
		return 0, err
	}

	s.logger.Info("GenerateForException: exception id=%d, %d candidates, %d created",
		exceptionID, len(candidates), created)
	return created, nil
}

// persist отбрасывает существующие и прошедшие слоты и сохраняет остальные
func (s *Service) persist(ctx context.Context, doctorID int64, candidates []domain.SlotCandidate, now time.Time) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	from, to := candidates[0].StartAt, candidates[0].EndAt
	for _, c := range candidates[1:] {
		if c.StartAt.Before(from) {
			from = c.StartAt
		}
		if c.EndAt.After(to) {
			to = c.EndAt
		}
	}
	if from.Before(now) {
		from = now
	}

	existing, err := s.slotRepo.List(ctx, domain.SlotFilter{
		DoctorID:       ptr.Ptr(doctorID),
		From:           &from,
		To:             &to,
		IncludeOrphans: true,
	})
	if err != nil {
		return 0, apperrors.Internal("failed to list existing slots", err)
	}

	fresh := FilterNew(candidates, existing, now)
	if len(fresh) == 0 {
		return 0, nil
	}

	created, err := s.slotRepo.BulkCreate(ctx, fresh)
	if err != nil {
		return 0, apperrors.Internal("failed to create slots", err)
	}

	return int(created), nil
}

// RunSlotGenerationJob продлевает слоты всех действующих повторяющихся окон.
// Ошибка по одному окну логируется и не прерывает обработку остальных.
func (s *Service) RunSlotGenerationJob(ctx context.Context) (int, error) {
	today := timewindow.DateOnly(s.timeProvider.Now(), s.location)

	availabilities, err := s.availabilityRepo.ListActiveRecurring(ctx, today)
	if err != nil {
		s.logger.Error("RunSlotGenerationJob: failed to list availabilities: %v", err)
		return 0, apperrors.Internal("failed to list availabilities", err)
	}

	total := 0
	for _, a := range availabilities {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		created, err := s.GenerateForAvailability(ctx, a.ID)
		if err != nil {
			s.logger.Warn("RunSlotGenerationJob: availability id=%d skipped: %v", a.ID, err)
			s.observe("error")
			continue
		}
		s.observe("ok")
		total += created
	}

	s.logger.Info("RunSlotGenerationJob: %d availabilities processed, %d slots created", len(availabilities), total)
	return total, nil
}

// ListSlots возвращает слоты врача за период.
// Слоты без источника не показываются, слоты под исключением UNAVAILABLE помечаются недоступными.
func (s *Service) ListSlots(ctx context.Context, req ListRequest) ([]SlotView, error) {
	if req.DoctorID <= 0 {
		return nil, ErrInvalidRange.WithMessage("doctor id is required")
	}

	now := s.timeProvider.Now()
	from := now
	if req.From != nil {
		from = *req.From
	}
	to := from.AddDate(0, 0, domain.DefaultAdvanceBookingDays)
	if req.To != nil {
		to = *req.To
	}
	if !to.After(from) {
		return nil, ErrInvalidRange.WithMessage("'to' must be after 'from'")
	}
	if to.Sub(from) > MaxListRangeDays*24*time.Hour {
		return nil, ErrInvalidRange.WithMessage("range must not exceed %d days", MaxListRangeDays)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		DoctorID: ptr.Ptr(req.DoctorID),
		From:     &from,
		To:       &to,
		Status:   req.Status,
	})
	if err != nil {
		s.logger.Error("ListSlots: failed to list slots for doctor=%d: %v", req.DoctorID, err)
		return nil, apperrors.Internal("failed to list slots", err)
	}

	unavailable := domain.ExceptionUnavailable
	exceptions, err := s.exceptionRepo.List(ctx, domain.ExceptionFilter{
		DoctorID:      ptr.Ptr(req.DoctorID),
		IncludeGlobal: true,
		From:          &from,
		To:            &to,
		Type:          &unavailable,
	})
	if err != nil {
		s.logger.Error("ListSlots: failed to list exceptions for doctor=%d: %v", req.DoctorID, err)
		return nil, apperrors.Internal("failed to list schedule exceptions", err)
	}

	result := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		blocked := domain.SlotBlockedByExceptions(slot.StartAt, slot.EndAt, slot.DoctorID, exceptions, s.location)
		result = append(result, SlotView{
			Slot:               slot,
			BlockedByException: blocked,
			Bookable:           slot.Status == domain.SlotAvailable && !blocked && slot.StartAt.After(now),
		})
	}

	return result, nil
}

// SetSlotStatus блокирует или освобождает слот вручную (AVAILABLE <-> BLOCKED)
func (s *Service) SetSlotStatus(ctx context.Context, actor domain.Actor, slotID int64, status domain.SlotStatus) (*domain.Slot, error) {
	if status != domain.SlotAvailable && status != domain.SlotBlocked {
		return nil, ErrInvalidSlotStatus
	}

	var result *domain.Slot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return apperrors.Internal("failed to get slot", err)
		}

		if !actor.CanManageDoctor(slot.DoctorID) {
			return ErrAccessDenied
		}
		if slot.Status == domain.SlotBooked {
			return ErrSlotBooked.WithMessage("slot %d is booked and cannot be set to %s", slotID, status)
		}

		if slot.Status != status {
			if err := s.slotRepo.UpdateStatus(txCtx, slotID, status); err != nil {
				return apperrors.Internal("failed to update slot status", err)
			}
			slot.Status = status
		}

		result = slot
		return nil
	})
	if err != nil {
		s.logger.Warn("SetSlotStatus: slot id=%d -> %s by user=%d: %v", slotID, status, actor.UserID, err)
		return nil, err
	}

	s.logger.Info("SetSlotStatus: slot id=%d is now %s", slotID, status)
	return result, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSweepItem(JobName, result)
	}
}
