package manual_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

var (
	now   = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

type recorder struct {
	mu        sync.Mutex
	confirmed []int64
}

func (r *recorder) Schedule(context.Context, *domain.Appointment) error { return nil }

func (r *recorder) AppointmentConfirmed(_ context.Context, appt *domain.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, appt.ID)
}

func newUseCase(t *testing.T, maxPatients int) (*UseCase, *memstore.Store, *recorder, domain.Schedule) {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	for id := int64(7); id < 17; id++ {
		store.AddUser(domain.User{ID: id, Role: domain.RolePatient})
	}
	store.AddDoctor(domain.Doctor{ID: 3, ConsultationFeeCents: 5000, Currency: "RUB"})
	schedule := store.AddSchedule(domain.Schedule{
		DoctorID:    3,
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "12:00",
		MaxPatients: maxPatients,
	})

	rec := &recorder{}
	uc := NewUseCase(store.Schedules(), store.AppointmentsRepo(), store.Users(), rec, rec, nil, store, time.UTC, logger.Nop())
	uc.timeProvider = clock.NewFixed(now)

	return uc, store, rec, schedule
}

func TestExecute_QueueNumbers(t *testing.T) {
	uc, store, rec, schedule := newUseCase(t, 2)
	ctx := context.Background()

	first, err := uc.Execute(ctx, &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, first.Status)
	assert.Equal(t, domain.PaymentPaid, first.PaymentStatus)
	assert.Equal(t, 1, *first.QueueNumber)
	assert.Equal(t, int64(5000), *first.AmountCents)

	second, err := uc.Execute(ctx, &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, *second.QueueNumber)

	_, err = uc.Execute(ctx, &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: 9})
	assert.ErrorIs(t, err, ErrScheduleFull)

	assert.Equal(t, []int64{first.ID, second.ID}, rec.confirmed)
	// подсчёт мест и вставка идут в SERIALIZABLE-транзакции
	assert.Equal(t, 3, store.SerializableRuns())
}

func TestExecute_ConcurrentNeverOverfills(t *testing.T) {
	uc, store, _, schedule := newUseCase(t, 3)

	var wg sync.WaitGroup
	for id := int64(7); id < 17; id++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			_, _ = uc.Execute(context.Background(), &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: patientID})
		}(id)
	}
	wg.Wait()

	appts := store.Appointments()
	require.Len(t, appts, 3)
	numbers := map[int]bool{}
	for _, a := range appts {
		numbers[*a.QueueNumber] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, numbers)
}

func TestExecute_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not admin", func(t *testing.T) {
		uc, _, _, schedule := newUseCase(t, 2)
		_, err := uc.Execute(ctx, &Request{Actor: domain.Actor{UserID: 7, Role: domain.RolePatient}, ScheduleID: schedule.ID, PatientID: 7})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		uc, _, _, _ := newUseCase(t, 2)
		_, err := uc.Execute(ctx, &Request{Actor: admin, ScheduleID: 404, PatientID: 7})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("unknown patient", func(t *testing.T) {
		uc, store, _, schedule := newUseCase(t, 2)
		_, err := uc.Execute(ctx, &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: 404})
		assert.ErrorIs(t, err, ErrPatientNotFound)
		assert.Empty(t, store.Appointments())
	})

	t.Run("ended", func(t *testing.T) {
		uc, _, _, schedule := newUseCase(t, 2)
		uc.timeProvider = clock.NewFixed(time.Date(2026, 3, 11, 12, 30, 0, 0, time.UTC))
		_, err := uc.Execute(ctx, &Request{Actor: admin, ScheduleID: schedule.ID, PatientID: 7})
		assert.ErrorIs(t, err, ErrScheduleInPast)
	})
}
