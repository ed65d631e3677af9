// Package notifications уведомления об изменениях записей: письма пациенту и врачу, исходящий вебхук.
// Отправка идёт в фоне; ошибки только логируются и не влияют на результат операции.
package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/webhook"
)

// DefaultTimeout ограничение на одну фоновую отправку
const DefaultTimeout = 15 * time.Second

type kind struct {
	event   string
	subject string
	verb    string
}

var (
	kindCreated     = kind{webhook.EventAppointmentCreated, "Запись создана", "создана"}
	kindConfirmed   = kind{webhook.EventAppointmentConfirmed, "Запись подтверждена", "подтверждена"}
	kindCancelled   = kind{webhook.EventAppointmentCancelled, "Запись отменена", "отменена"}
	kindRescheduled = kind{webhook.EventAppointmentRescheduled, "Запись перенесена", "перенесена"}
)

// Service фоновые уведомления
type Service struct {
	userRepo UserRepository
	email    EmailSender
	webhook  WebhookSender
	location *time.Location
	timeout  time.Duration
	logger   Logger

	wg sync.WaitGroup
}

func NewService(userRepo UserRepository, emailSender EmailSender, webhookSender WebhookSender, location *time.Location, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		email:    emailSender,
		webhook:  webhookSender,
		location: location,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
}

func (s *Service) AppointmentCreated(ctx context.Context, appt *domain.Appointment) {
	s.dispatch(ctx, kindCreated, appt, "")
}

func (s *Service) AppointmentConfirmed(ctx context.Context, appt *domain.Appointment) {
	s.dispatch(ctx, kindConfirmed, appt, "")
}

func (s *Service) AppointmentCancelled(ctx context.Context, appt *domain.Appointment, reason string) {
	s.dispatch(ctx, kindCancelled, appt, reason)
}

func (s *Service) AppointmentRescheduled(ctx context.Context, appt *domain.Appointment) {
	s.dispatch(ctx, kindRescheduled, appt, "")
}

// Wait дожидается завершения всех фоновых отправок (остановка сервиса, тесты)
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(ctx context.Context, k kind, appt *domain.Appointment, reason string) {
	snapshot := *appt

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// запрос уже может быть завершён, отмена его контекста не должна обрывать отправку
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		s.send(sendCtx, k, &snapshot, reason)
	}()
}

func (s *Service) send(ctx context.Context, k kind, appt *domain.Appointment, reason string) {
	event := webhook.AppointmentEvent{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		StartAt:       appt.StartAt,
		EndAt:         appt.EndAt,
		Status:        appt.Status.String(),
		Reason:        reason,
	}

	patient, err := s.userRepo.GetUserByID(ctx, appt.PatientID)
	if err != nil {
		s.logger.Warn("notifications: appointment id=%d: patient id=%d not resolved: %v", appt.ID, appt.PatientID, err)
	} else {
		event.PatientEmail = patient.Email
	}

	doctor, err := s.userRepo.GetDoctorByID(ctx, appt.DoctorID)
	if err != nil {
		s.logger.Warn("notifications: appointment id=%d: doctor id=%d not resolved: %v", appt.ID, appt.DoctorID, err)
	} else {
		event.DoctorEmail = doctor.Email
	}

	if patient != nil && patient.Email != "" {
		s.sendEmail(ctx, email.Message{
			To:      patient.Email,
			ToName:  patient.FullName,
			Subject: k.subject,
			Body:    s.body(k, appt, doctorName(doctor), reason),
		}, appt.ID)
	}
	if doctor != nil && doctor.Email != "" {
		s.sendEmail(ctx, email.Message{
			To:      doctor.Email,
			ToName:  doctor.FullName,
			Subject: k.subject,
			Body:    s.body(k, appt, doctorName(doctor), reason),
		}, appt.ID)
	}

	if err := s.webhook.Send(ctx, k.event, event); err != nil {
		s.logger.Error("notifications: webhook %s for appointment id=%d failed: %v", k.event, appt.ID, err)
	}
}

func (s *Service) sendEmail(ctx context.Context, msg email.Message, appointmentID int64) {
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notifications: email %q to %s for appointment id=%d failed: %v", msg.Subject, msg.To, appointmentID, err)
	}
}

func (s *Service) body(k kind, appt *domain.Appointment, doctor, reason string) string {
	start := appt.StartAt.In(s.location)
	text := fmt.Sprintf("Запись №%d к врачу %s на %s в %s %s.",
		appt.ID, doctor, start.Format(domain.DateFormat), start.Format(domain.TimeFormat), k.verb)
	if appt.QueueNumber != nil {
		text += fmt.Sprintf(" Номер в очереди: %d.", *appt.QueueNumber)
	}
	if reason != "" {
		text += " Причина: " + reason
	}
	return text
}

func doctorName(d *domain.Doctor) string {
	if d == nil || d.FullName == "" {
		return "-"
	}
	return d.FullName
}
