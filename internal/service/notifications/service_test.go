package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/webhook"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type recorder struct {
	mu     sync.Mutex
	emails []email.Message
	events []string
	data   []webhook.AppointmentEvent
	err    error
}

func (r *recorder) Send(_ context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, msg)
	return r.err
}

type hook struct{ r *recorder }

func (h hook) Send(_ context.Context, eventType string, data webhook.AppointmentEvent) error {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	h.r.events = append(h.r.events, eventType)
	h.r.data = append(h.r.data, data)
	return nil
}

func newTestService(t *testing.T, emailErr error) (*Service, *recorder) {
	t.Helper()

	store := memstore.New()
	store.AddUser(domain.User{ID: 7, Role: domain.RolePatient, Email: "patient@example.com", FullName: "Иван Петров"})
	store.AddDoctor(domain.Doctor{ID: 3, FullName: "Dr. House", Email: "house@example.com"})

	rec := &recorder{err: emailErr}
	return NewService(store.Users(), rec, hook{r: rec}, time.UTC, logger.Nop()), rec
}

func appointment() *domain.Appointment {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Appointment{ID: 11, PatientID: 7, DoctorID: 3, StartAt: start, EndAt: start.Add(30 * time.Minute), Status: domain.StatusPending}
}

func TestAppointmentCreated(t *testing.T) {
	svc, rec := newTestService(t, nil)

	svc.AppointmentCreated(context.Background(), appointment())
	svc.Wait()

	require.Len(t, rec.emails, 2)
	assert.Equal(t, "patient@example.com", rec.emails[0].To)
	assert.Equal(t, "house@example.com", rec.emails[1].To)
	assert.Contains(t, rec.emails[0].Body, "2026-03-10")
	assert.Contains(t, rec.emails[0].Body, "09:00")

	require.Equal(t, []string{webhook.EventAppointmentCreated}, rec.events)
	assert.Equal(t, int64(11), rec.data[0].AppointmentID)
	assert.Equal(t, "patient@example.com", rec.data[0].PatientEmail)
}

func TestAppointmentCancelled_EmailFailureDoesNotStopWebhook(t *testing.T) {
	svc, rec := newTestService(t, errors.New("smtp down"))

	ctx, cancel := context.WithCancel(context.Background())
	svc.AppointmentCancelled(ctx, appointment(), "заболел")
	cancel()
	svc.Wait()

	require.Equal(t, []string{webhook.EventAppointmentCancelled}, rec.events)
	assert.Equal(t, "заболел", rec.data[0].Reason)
	assert.Contains(t, rec.emails[0].Body, "Причина: заболел")
}

func TestUnknownPatient(t *testing.T) {
	svc, rec := newTestService(t, nil)

	appt := appointment()
	appt.PatientID = 404
	svc.AppointmentRescheduled(context.Background(), appt)
	svc.Wait()

	require.Len(t, rec.emails, 1)
	assert.Equal(t, "house@example.com", rec.emails[0].To)
	assert.Equal(t, []string{webhook.EventAppointmentRescheduled}, rec.events)
}
