package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
)

const (
	// JobName имя задачи рассылки напоминаний (метрики и блокировка)
	JobName = "reminders"

	batchSize = 200
)

// Service напоминания пациентам о предстоящем приёме
type Service struct {
	reminderRepo    ReminderRepository
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	email           EmailSender
	metrics         Metrics
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

func NewService(
	reminderRepo ReminderRepository,
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	emailSender EmailSender,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		reminderRepo:    reminderRepo,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		email:           emailSender,
		metrics:         metrics,
		timeProvider:    clock.Real{},
		location:        location,
		logger:          logger,
	}
}

// Schedule ставит (или переставляет) напоминание записи: за 24 часа, а если приём ближе - за час
func (s *Service) Schedule(ctx context.Context, appt *domain.Appointment) error {
	at := domain.ReminderTime(appt.StartAt, s.timeProvider.Now())
	if err := s.reminderRepo.Upsert(ctx, appt.ID, at); err != nil {
		s.logger.Error("ScheduleReminder: appointment id=%d: %v", appt.ID, err)
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	s.logger.Info("ScheduleReminder: appointment id=%d at %s", appt.ID, at.Format(time.RFC3339))
	return nil
}

// Reschedule переставляет напоминание после переноса записи
func (s *Service) Reschedule(ctx context.Context, appt *domain.Appointment) error {
	return s.Schedule(ctx, appt)
}

// Cancel отменяет неотправленное напоминание записи
func (s *Service) Cancel(ctx context.Context, appointmentID int64) error {
	if err := s.reminderRepo.CancelByAppointment(ctx, appointmentID); err != nil {
		s.logger.Error("CancelReminder: appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	return nil
}

// ProcessReminders рассылает наступившие напоминания.
// Напоминания завершённых и отменённых записей помечаются отменёнными; при ошибке отправки
// напоминание остаётся неотмеченным и будет отправлено при следующем запуске.
// Возвращает число обработанных (отправленных и отменённых) напоминаний.
func (s *Service) ProcessReminders(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	due, err := s.reminderRepo.ListDue(ctx, now, batchSize)
	if err != nil {
		s.logger.Error("ProcessReminders: failed to list due reminders: %v", err)
		return 0, apperrors.Internal("failed to list due reminders", err)
	}

	processed := 0
	for _, r := range due {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		result := s.process(ctx, r)
		s.observe(result)
		if result != "error" {
			processed++
		}
	}

	s.logger.Info("ProcessReminders: %d due, %d processed", len(due), processed)
	return processed, nil
}

func (s *Service) process(ctx context.Context, r *domain.Reminder) string {
	appt, err := s.appointmentRepo.GetByID(ctx, r.AppointmentID)
	if err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Error("ProcessReminders: reminder id=%d: failed to get appointment: %v", r.ID, err)
		return "error"
	}

	if appt == nil || appt.Status.IsTerminal() {
		if err := s.reminderRepo.MarkCancelled(ctx, r.ID); err != nil {
			s.logger.Error("ProcessReminders: reminder id=%d: failed to mark cancelled: %v", r.ID, err)
			return "error"
		}
		return "cancelled"
	}

	patient, err := s.userRepo.GetUserByID(ctx, appt.PatientID)
	if err != nil {
		s.logger.Error("ProcessReminders: reminder id=%d: failed to get patient id=%d: %v", r.ID, appt.PatientID, err)
		return "error"
	}

	doctor := "-"
	if d, err := s.userRepo.GetDoctorByID(ctx, appt.DoctorID); err == nil && d.FullName != "" {
		doctor = d.FullName
	}

	start := appt.StartAt.In(s.location)
	msg := email.Message{
		To:      patient.Email,
		ToName:  patient.FullName,
		Subject: "Напоминание о приёме",
		Body: fmt.Sprintf("Напоминаем о приёме у врача %s %s в %s.",
			doctor, start.Format(domain.DateFormat), start.Format(domain.TimeFormat)),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("ProcessReminders: reminder id=%d: send failed, will retry: %v", r.ID, err)
		return "error"
	}

	if err := s.reminderRepo.MarkSent(ctx, r.ID); err != nil {
		s.logger.Error("ProcessReminders: reminder id=%d: failed to mark sent: %v", r.ID, err)
		return "error"
	}
	return "sent"
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSweepItem(JobName, result)
	}
}
