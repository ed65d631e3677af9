package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type reminderSpy struct{ cancelled []int64 }

func (r *reminderSpy) Cancel(_ context.Context, id int64) error {
	r.cancelled = append(r.cancelled, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memstore.Store, *reminderSpy) {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	spy := &reminderSpy{}

	svc := NewService(store.AppointmentsRepo(), store.Slots(), spy, store, nil, 30, logger.Nop())
	svc.timeProvider = clock.NewFixed(now)
	return svc, store, spy
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	appt := store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, Status: domain.StatusConfirmed})

	for name, tc := range map[string]struct {
		actor   domain.Actor
		allowed bool
	}{
		"patient owner":  {domain.Actor{UserID: 7, Role: domain.RolePatient}, true},
		"other patient":  {domain.Actor{UserID: 8, Role: domain.RolePatient}, false},
		"own doctor":     {domain.Actor{UserID: 30, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(3))}, true},
		"another doctor": {domain.Actor{UserID: 40, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(4))}, false},
		"admin":          {domain.Actor{UserID: 1, Role: domain.RoleAdmin}, true},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := svc.GetByID(ctx, tc.actor, appt.ID)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, appt.ID, got.ID)
			} else {
				assert.ErrorIs(t, err, ErrAccessDenied)
			}
		})
	}

	_, err := svc.GetByID(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, StartAt: now, Status: domain.StatusConfirmed})
	store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 4, StartAt: now.Add(time.Hour), Status: domain.StatusCancelled})
	store.AddAppointment(domain.Appointment{PatientID: 8, DoctorID: 3, StartAt: now.Add(2 * time.Hour), Status: domain.StatusPending})

	t.Run("patient sees own", func(t *testing.T) {
		list, err := svc.List(ctx, domain.Actor{UserID: 7, Role: domain.RolePatient}, ListRequest{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("patient filter by status", func(t *testing.T) {
		status := domain.StatusCancelled
		list, err := svc.List(ctx, domain.Actor{UserID: 7, Role: domain.RolePatient}, ListRequest{Status: &status})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(4), list[0].DoctorID)
	})

	t.Run("patient cannot read others", func(t *testing.T) {
		_, err := svc.List(ctx, domain.Actor{UserID: 7, Role: domain.RolePatient}, ListRequest{PatientID: ptr.Ptr(int64(8))})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("doctor defaults to own", func(t *testing.T) {
		list, err := svc.List(ctx, domain.Actor{UserID: 30, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(3))}, ListRequest{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("admin needs a filter", func(t *testing.T) {
		_, err := svc.List(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, ListRequest{})
		assert.ErrorIs(t, err, ErrInvalidFilter)

		list, err := svc.List(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, ListRequest{DoctorID: ptr.Ptr(int64(4))})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("unknown status", func(t *testing.T) {
		status := domain.AppointmentStatus("LOST")
		_, err := svc.List(ctx, domain.Actor{UserID: 7, Role: domain.RolePatient}, ListRequest{Status: &status})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestArchiveExpiredAppointments(t *testing.T) {
	ctx := context.Background()
	svc, store, spy := newTestService(t)

	past := now.Add(-2 * time.Hour)
	slot := store.AddSlot(domain.Slot{DoctorID: 3, StartAt: past, EndAt: past.Add(time.Hour), Status: domain.SlotBooked})

	stale := store.AddAppointment(domain.Appointment{
		PatientID: 7, DoctorID: 3, SlotID: &slot.ID, StartAt: past, EndAt: past.Add(time.Hour), Status: domain.StatusPending,
	})
	unpaid := store.AddAppointment(domain.Appointment{
		PatientID: 8, DoctorID: 3, StartAt: past, EndAt: past.Add(time.Hour), Status: domain.StatusPendingPayment,
	})
	upcoming := store.AddAppointment(domain.Appointment{
		PatientID: 7, DoctorID: 3, StartAt: now.Add(time.Hour), EndAt: now.Add(2 * time.Hour), Status: domain.StatusPending,
	})
	old := store.AddAppointment(domain.Appointment{
		PatientID: 7, DoctorID: 3, StartAt: now.AddDate(0, 0, -40), EndAt: now.AddDate(0, 0, -40).Add(time.Hour), Status: domain.StatusCompleted,
	})
	recent := store.AddAppointment(domain.Appointment{
		PatientID: 7, DoctorID: 3, StartAt: now.AddDate(0, 0, -3), EndAt: now.AddDate(0, 0, -3).Add(time.Hour), Status: domain.StatusCompleted,
	})

	total, err := svc.ArchiveExpiredAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	got, _ := store.Appointment(stale.ID)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.Notes)
	assert.Contains(t, *got.Notes, ExpiredNote)

	freed, _ := store.Slot(slot.ID)
	assert.Equal(t, domain.SlotAvailable, freed.Status)

	got, _ = store.Appointment(unpaid.ID)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	got, _ = store.Appointment(upcoming.ID)
	assert.Equal(t, domain.StatusPending, got.Status)

	got, _ = store.Appointment(old.ID)
	assert.NotNil(t, got.ArchivedAt)
	got, _ = store.Appointment(recent.ID)
	assert.Nil(t, got.ArchivedAt)

	assert.ElementsMatch(t, []int64{stale.ID, unpaid.ID}, spy.cancelled)

	// повторный запуск ничего не меняет
	total, err = svc.ArchiveExpiredAppointments(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
