package schedules

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
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const doctorID int64 = 3

var (
	now  = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

type gateway bool

func (g gateway) IsConfigured() bool { return bool(g) }

func newTestService(t *testing.T, configured bool, fee int64) (*Service, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	store.AddDoctor(domain.Doctor{ID: doctorID, ConsultationFeeCents: fee, Currency: "RUB"})

	svc := NewService(store.Schedules(), store.AppointmentsRepo(), store.Users(), gateway(configured), store, time.UTC, logger.Nop())
	svc.timeProvider = clock.NewFixed(now)
	return svc, store
}

func doctor() domain.Actor {
	return domain.Actor{UserID: 30, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(doctorID)}
}

func window(start, end string, max int) *domain.Schedule {
	return &domain.Schedule{
		DoctorID: doctorID, Date: date,
		StartTime: types.TimeString(start), EndTime: types.TimeString(end), MaxPatients: max,
	}
}

func TestCreateSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, true, 5000)

	created, err := svc.CreateSchedule(ctx, doctor(), window("09:00", "12:00", 10))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	t.Run("exact duplicate", func(t *testing.T) {
		_, err := svc.CreateSchedule(ctx, doctor(), window("09:00", "12:00", 5))
		assert.ErrorIs(t, err, ErrScheduleExists)
		assert.Contains(t, err.Error(), "schedule already exists")
	})

	t.Run("overlap", func(t *testing.T) {
		_, err := svc.CreateSchedule(ctx, doctor(), window("11:00", "13:00", 5))
		assert.ErrorIs(t, err, ErrScheduleOverlaps)
		assert.Contains(t, err.Error(), "schedule overlaps")
	})

	t.Run("adjacent", func(t *testing.T) {
		_, err := svc.CreateSchedule(ctx, doctor(), window("12:00", "14:00", 5))
		assert.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreateSchedule(ctx, doctor(), window("15:00", "16:00", 0))
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule)

		_, err = svc.CreateSchedule(ctx, doctor(), window("16:00", "15:00", 1))
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	})

	t.Run("another doctor", func(t *testing.T) {
		other := domain.Actor{UserID: 40, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(4))}
		_, err := svc.CreateSchedule(ctx, other, window("18:00", "19:00", 1))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetAvailabilityWindows(t *testing.T) {
	ctx := context.Background()

	seed := func(svc *Service, store *memstore.Store) (past, full, open domain.Schedule) {
		past = store.AddSchedule(*window("06:00", "07:00", 2))
		full = store.AddSchedule(*window("09:00", "10:00", 1))
		open = store.AddSchedule(*window("11:00", "12:00", 3))
		store.AddAppointment(domain.Appointment{DoctorID: doctorID, ScheduleID: &full.ID, Status: domain.StatusConfirmed})
		store.AddAppointment(domain.Appointment{DoctorID: doctorID, ScheduleID: &open.ID, Status: domain.StatusConfirmed})
		store.AddAppointment(domain.Appointment{DoctorID: doctorID, ScheduleID: &open.ID, Status: domain.StatusPendingPayment})
		store.AddAppointment(domain.Appointment{DoctorID: doctorID, ScheduleID: &open.ID, Status: domain.StatusCancelled})
		return past, full, open
	}

	t.Run("payment configured", func(t *testing.T) {
		svc, store := newTestService(t, true, 5000)
		seed(svc, store)

		windows, err := svc.GetAvailabilityWindows(ctx, doctorID, date)
		require.NoError(t, err)
		require.Len(t, windows, 3)

		assert.False(t, windows[0].IsBookable)
		assert.Equal(t, domain.DisabledPast, *windows[0].DisabledReason)

		assert.Equal(t, 1, windows[1].ConfirmedCount)
		assert.Zero(t, windows[1].Remaining)
		assert.Equal(t, domain.DisabledFull, *windows[1].DisabledReason)

		assert.True(t, windows[2].IsBookable)
		assert.Equal(t, 1, windows[2].ConfirmedCount)
		assert.Equal(t, 2, windows[2].Remaining)
		assert.Nil(t, windows[2].DisabledReason)
	})

	t.Run("zero price", func(t *testing.T) {
		svc, store := newTestService(t, true, 0)
		seed(svc, store)

		windows, err := svc.GetAvailabilityWindows(ctx, doctorID, date)
		require.NoError(t, err)
		assert.Equal(t, domain.DisabledPast, *windows[0].DisabledReason)
		assert.Equal(t, domain.DisabledFull, *windows[1].DisabledReason)
		assert.Equal(t, domain.DisabledPaymentNotConfigured, *windows[2].DisabledReason)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		svc, _ := newTestService(t, true, 5000)
		_, err := svc.GetAvailabilityWindows(ctx, 404, date)
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})
}

func TestDeleteSchedule(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, true, 5000)

	sc := store.AddSchedule(*window("09:00", "12:00", 5))
	pending := store.AddAppointment(domain.Appointment{DoctorID: doctorID, ScheduleID: &sc.ID, Status: domain.StatusPendingPayment})

	err := svc.DeleteSchedule(ctx, doctor(), sc.ID)
	assert.ErrorIs(t, err, ErrScheduleInUse)

	pending.Status = domain.StatusCancelled
	store.AddAppointment(pending)

	require.NoError(t, svc.DeleteSchedule(ctx, doctor(), sc.ID))

	_, err = svc.GetByID(ctx, sc.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	err = svc.DeleteSchedule(ctx, doctor(), sc.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
