package book_slot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type effects struct {
	mu        sync.Mutex
	reminders []int64
	created   []int64
}

func (e *effects) Schedule(_ context.Context, appt *domain.Appointment) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reminders = append(e.reminders, appt.ID)
	return nil
}

type notifier struct{ e *effects }

func (n notifier) AppointmentCreated(_ context.Context, appt *domain.Appointment) {
	n.e.mu.Lock()
	defer n.e.mu.Unlock()
	n.e.created = append(n.e.created, appt.ID)
}

type fixture struct {
	uc      *UseCase
	store   *memstore.Store
	effects *effects
	metrics *metrics.Metrics
	slot    domain.Slot
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	store.AddUser(domain.User{ID: 7, Role: domain.RolePatient})
	store.AddUser(domain.User{ID: 8, Role: domain.RolePatient})
	store.AddDoctor(domain.Doctor{ID: 3})

	availabilityID := int64(50)
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	slot := store.AddSlot(domain.Slot{DoctorID: 3, AvailabilityID: &availabilityID, StartAt: start, EndAt: start.Add(30 * time.Minute)})

	eff := &effects{}
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	uc := NewUseCase(store.Slots(), store.AppointmentsRepo(), store.Exceptions(), store.Users(),
		eff, notifier{e: eff}, m, store, time.UTC, logger.Nop())
	uc.timeProvider = clock.NewFixed(now)

	return fixture{uc: uc, store: store, effects: eff, metrics: m, slot: slot}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	notes := "первичный приём"

	appt, err := f.uc.Execute(context.Background(), &Request{PatientID: 7, SlotID: f.slot.ID, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Equal(t, int64(3), appt.DoctorID)
	assert.Equal(t, f.slot.StartAt, appt.StartAt)
	assert.Equal(t, f.slot.EndAt, appt.EndAt)
	assert.Equal(t, f.slot.ID, *appt.SlotID)
	assert.Equal(t, int64(50), *appt.AvailabilityID)

	slot, _ := f.store.Slot(f.slot.ID)
	assert.Equal(t, domain.SlotBooked, slot.Status)

	assert.Equal(t, []int64{appt.ID}, f.effects.reminders)
	assert.Equal(t, []int64{appt.ID}, f.effects.created)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues("slot", "success")))
}

func TestExecute_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.Execute(ctx, &Request{PatientID: 7, SlotID: 404})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("blocked slot", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Slots().UpdateStatus(ctx, f.slot.ID, domain.SlotBlocked))

		_, err := f.uc.Execute(ctx, &Request{PatientID: 7, SlotID: f.slot.ID})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("doctor on leave", func(t *testing.T) {
		f := newFixture(t)
		day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		f.store.AddException(domain.ScheduleException{DoctorID: ptr.Ptr(int64(3)), DateFrom: day, DateTo: day, Type: domain.ExceptionUnavailable})

		_, err := f.uc.Execute(ctx, &Request{PatientID: 7, SlotID: f.slot.ID})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("slot already started", func(t *testing.T) {
		f := newFixture(t)
		f.uc.timeProvider = clock.NewFixed(f.slot.StartAt.Add(time.Minute))

		_, err := f.uc.Execute(ctx, &Request{PatientID: 7, SlotID: f.slot.ID})
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("unknown patient rolls back", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Execute(ctx, &Request{PatientID: 404, SlotID: f.slot.ID})
		assert.ErrorIs(t, err, ErrPatientNotFound)

		slot, _ := f.store.Slot(f.slot.ID)
		assert.Equal(t, domain.SlotAvailable, slot.Status)
		assert.Empty(t, f.store.Appointments())
		assert.Empty(t, f.effects.reminders)
	})

	t.Run("notes too long", func(t *testing.T) {
		f := newFixture(t)
		notes := string(make([]rune, domain.MaxNotesLength+1))

		_, err := f.uc.Execute(ctx, &Request{PatientID: 7, SlotID: f.slot.ID, Notes: &notes})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_ConcurrentDoubleBooking(t *testing.T) {
	f := newFixture(t)
	const attempts = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		patientID := int64(7 + i%2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{PatientID: patientID, SlotID: f.slot.ID})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.IsKind(err, apperrors.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.store.Appointments(), 1)
	assert.Equal(t, float64(attempts-1), testutil.ToFloat64(f.metrics.BookingsTotal.WithLabelValues("slot", "conflict")))
}
