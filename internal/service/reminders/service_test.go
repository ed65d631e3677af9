package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type outbox struct {
	sent []email.Message
	fail map[string]bool
}

func (o *outbox) Send(_ context.Context, msg email.Message) error {
	if o.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	o.sent = append(o.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *memstore.Store, *clock.Fixed, *outbox) {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	store.AddUser(domain.User{ID: 7, Role: domain.RolePatient, Email: "patient@example.com"})
	store.AddUser(domain.User{ID: 8, Role: domain.RolePatient, Email: "broken@example.com"})
	store.AddDoctor(domain.Doctor{ID: 3, FullName: "Dr. House"})

	box := &outbox{fail: map[string]bool{"broken@example.com": true}}
	clk := clock.NewFixed(now)
	svc := NewService(store.Reminders(), store.AppointmentsRepo(), store.Users(), box, nil, time.UTC, logger.Nop())
	svc.timeProvider = clk
	return svc, store, clk, box
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)

	t.Run("more than a day ahead", func(t *testing.T) {
		appt := &domain.Appointment{ID: 100, StartAt: now.Add(72 * time.Hour)}
		require.NoError(t, svc.Schedule(ctx, appt))

		r, ok := store.Reminder(100)
		require.True(t, ok)
		assert.Equal(t, now.Add(48*time.Hour), r.ScheduledFor)
	})

	t.Run("within a day", func(t *testing.T) {
		appt := &domain.Appointment{ID: 101, StartAt: now.Add(5 * time.Hour)}
		require.NoError(t, svc.Schedule(ctx, appt))

		r, _ := store.Reminder(101)
		assert.Equal(t, now.Add(4*time.Hour), r.ScheduledFor)
	})

	t.Run("reschedule moves it", func(t *testing.T) {
		appt := &domain.Appointment{ID: 100, StartAt: now.Add(30 * time.Hour)}
		require.NoError(t, svc.Reschedule(ctx, appt))

		r, _ := store.Reminder(100)
		assert.Equal(t, now.Add(6*time.Hour), r.ScheduledFor)
	})

	t.Run("cancel", func(t *testing.T) {
		require.NoError(t, svc.Cancel(ctx, 101))

		r, _ := store.Reminder(101)
		assert.NotNil(t, r.CancelledAt)
	})
}

func TestProcessReminders(t *testing.T) {
	ctx := context.Background()
	svc, store, clk, box := newTestService(t)

	start := now.Add(2 * time.Hour)
	active := store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusConfirmed})
	cancelled := store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusCancelled})
	failing := store.AddAppointment(domain.Appointment{PatientID: 8, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusPending})
	later := store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, StartAt: now.Add(72 * time.Hour), EndAt: now.Add(73 * time.Hour), Status: domain.StatusPending})

	for _, a := range []domain.Appointment{active, cancelled, failing, later} {
		require.NoError(t, svc.Schedule(ctx, &a))
	}

	clk.Advance(time.Hour + time.Minute)

	processed, err := svc.ProcessReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	require.Len(t, box.sent, 1)
	assert.Equal(t, "patient@example.com", box.sent[0].To)
	assert.Contains(t, box.sent[0].Body, "Dr. House")

	r, _ := store.Reminder(active.ID)
	assert.NotNil(t, r.SentAt)
	r, _ = store.Reminder(cancelled.ID)
	assert.NotNil(t, r.CancelledAt)
	r, _ = store.Reminder(failing.ID)
	assert.True(t, r.IsPending(), "failed delivery is retried on the next run")
	r, _ = store.Reminder(later.ID)
	assert.True(t, r.IsPending())

	// повторный запуск снова пытается отправить только неудавшееся
	delete(box.fail, "broken@example.com")
	processed, err = svc.ProcessReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}
