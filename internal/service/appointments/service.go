package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

// DefaultArchiveAfterDays срок хранения завершённых записей до архивации
const DefaultArchiveAfterDays = 30

// Service чтение записей и их обслуживание по расписанию
type Service struct {
	appointmentRepo  AppointmentRepository
	slotRepo         SlotRepository
	reminders        ReminderCanceller
	txManager        TransactionManager
	metrics          Metrics
	timeProvider     TimeProvider
	archiveAfterDays int
	logger           Logger
}

func NewService(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	reminders ReminderCanceller,
	txManager TransactionManager,
	metrics Metrics,
	archiveAfterDays int,
	logger Logger,
) *Service {
	if archiveAfterDays <= 0 {
		archiveAfterDays = DefaultArchiveAfterDays
	}
	return &Service{
		appointmentRepo:  appointmentRepo,
		slotRepo:         slotRepo,
		reminders:        reminders,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     clock.Real{},
		archiveAfterDays: archiveAfterDays,
		logger:           logger,
	}
}

// GetByID возвращает запись участнику (пациенту, врачу) или администратору
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetAppointment: id=%d: %v", id, err)
		return nil, apperrors.Internal("failed to get appointment", err)
	}

	if !canView(actor, appt) {
		s.logger.Warn("GetAppointment: user=%d (%s) denied access to appointment id=%d", actor.UserID, actor.Role, id)
		return nil, ErrAccessDenied
	}
	return appt, nil
}

// List записи пациента или врача.
// Пациент видит только свои записи, врач - записи к себе, администратор - любые.
func (s *Service) List(ctx context.Context, actor domain.Actor, req ListRequest) ([]*domain.Appointment, error) {
	switch actor.Role {
	case domain.RolePatient:
		if req.PatientID != nil && *req.PatientID != actor.UserID {
			return nil, ErrAccessDenied
		}
		req.PatientID = &actor.UserID
	case domain.RoleDoctor:
		if req.DoctorID == nil && req.PatientID == nil {
			req.DoctorID = actor.DoctorID
		}
		if req.DoctorID == nil || !actor.IsDoctor(*req.DoctorID) {
			return nil, ErrAccessDenied
		}
	}
	if req.PatientID == nil && req.DoctorID == nil {
		return nil, ErrInvalidFilter.WithMessage("patientId or doctorId is required")
	}

	filter := domain.AppointmentFilter{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, domain.ErrInvalidStatus.WithMessage("unknown appointment status %q", *req.Status)
		}
		filter.Statuses = []domain.AppointmentStatus{*req.Status}
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListAppointments: %v", err)
		return nil, apperrors.Internal("failed to list appointments", err)
	}
	return list, nil
}

// ArchiveExpiredAppointments отменяет неподтверждённые записи, время которых прошло,
// и архивирует завершённые записи старше archiveAfterDays. Возвращает общее число изменённых записей.
func (s *Service) ArchiveExpiredAppointments(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	// 1. Просроченные PENDING / PENDING_PAYMENT
	expired, err := s.appointmentRepo.ListExpiredAwaiting(ctx, now, expireBatch)
	if err != nil {
		s.logger.Error("ArchiveExpiredAppointments: failed to list expired: %v", err)
		return 0, apperrors.Internal("failed to list expired appointments", err)
	}

	cancelled := 0
	for _, a := range expired {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}

		done, err := s.expire(ctx, a.ID, now)
		if err != nil {
			s.logger.Error("ArchiveExpiredAppointments: appointment id=%d: %v", a.ID, err)
			s.observe("error")
			continue
		}
		if !done {
			continue
		}
		cancelled++
		s.observe("expired")

		if err := s.reminders.Cancel(ctx, a.ID); err != nil {
			s.logger.Warn("ArchiveExpiredAppointments: appointment id=%d: reminder not cancelled: %v", a.ID, err)
		}
	}

	// 2. Архивация завершённых
	before := now.AddDate(0, 0, -s.archiveAfterDays)
	archived, err := s.appointmentRepo.ArchiveFinished(ctx, before)
	if err != nil {
		s.logger.Error("ArchiveExpiredAppointments: failed to archive: %v", err)
		return cancelled, apperrors.Internal("failed to archive appointments", err)
	}
	for i := int64(0); i < archived; i++ {
		s.observe("archived")
	}

	s.logger.Info("ArchiveExpiredAppointments: %d expired cancelled, %d archived", cancelled, archived)
	return cancelled + int(archived), nil
}

// expire отменяет одну запись и освобождает её слот. false - запись уже не ожидает подтверждения.
func (s *Service) expire(ctx context.Context, id int64, now time.Time) (bool, error) {
	done := false
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !appt.Status.IsAwaiting() || !appt.EndAt.Before(now) {
			return nil
		}

		appt.Status = domain.StatusCancelled
		appt.AppendNote(ExpiredNote)
		if err := s.appointmentRepo.Update(txCtx, appt); err != nil {
			return err
		}

		if appt.SlotID != nil {
			if err := s.releaseSlot(txCtx, *appt.SlotID); err != nil {
				return err
			}
		}

		done = true
		return nil
	})
	return done, err
}

func (s *Service) releaseSlot(ctx context.Context, slotID int64) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil
		}
		return err
	}
	if slot.Status != domain.SlotBooked {
		return nil
	}
	return s.slotRepo.UpdateStatus(ctx, slotID, domain.SlotAvailable)
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSweepItem(JobName, result)
	}
}

func canView(actor domain.Actor, appt *domain.Appointment) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDoctor:
		return actor.IsDoctor(appt.DoctorID)
	case domain.RolePatient:
		return appt.PatientID == actor.UserID
	}
	return false
}
