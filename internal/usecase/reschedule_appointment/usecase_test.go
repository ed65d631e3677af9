package reschedule_appointment

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

var (
	now     = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	patient = domain.Actor{UserID: 7, Role: domain.RolePatient}
	admin   = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	policies = domain.PolicyConfig{AllowAdminCancel: true, AllowDoctorCancel: true, PatientMinHoursBefore: 24}
)

type recorder struct {
	rescheduled []int64
	notified    []int64
}

func (r *recorder) Reschedule(_ context.Context, appt *domain.Appointment) error {
	r.rescheduled = append(r.rescheduled, appt.ID)
	return nil
}

func (r *recorder) AppointmentRescheduled(_ context.Context, appt *domain.Appointment) {
	r.notified = append(r.notified, appt.ID)
}

type fixture struct {
	uc      *UseCase
	store   *memstore.Store
	rec     *recorder
	oldSlot domain.Slot
	newSlot domain.Slot
	appt    domain.Appointment
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }

	availabilityID := int64(50)
	oldStart := now.Add(72 * time.Hour)
	newStart := now.Add(96 * time.Hour)
	oldSlot := store.AddSlot(domain.Slot{DoctorID: 3, AvailabilityID: &availabilityID, StartAt: oldStart, EndAt: oldStart.Add(30 * time.Minute), Status: domain.SlotBooked})
	newSlot := store.AddSlot(domain.Slot{DoctorID: 3, AvailabilityID: &availabilityID, StartAt: newStart, EndAt: newStart.Add(30 * time.Minute)})
	appt := store.AddAppointment(domain.Appointment{
		PatientID:      7,
		DoctorID:       3,
		AvailabilityID: &availabilityID,
		SlotID:         ptr.Ptr(oldSlot.ID),
		StartAt:        oldSlot.StartAt,
		EndAt:          oldSlot.EndAt,
		Status:         domain.StatusConfirmed,
	})

	rec := &recorder{}
	uc := NewUseCase(store.AppointmentsRepo(), store.Slots(), store.Exceptions(), rec, rec, store, policies, time.UTC, logger.Nop())
	uc.timeProvider = clock.NewFixed(now)

	return fixture{uc: uc, store: store, rec: rec, oldSlot: oldSlot, newSlot: newSlot, appt: appt}
}

func (f fixture) assertSlotsUnchanged(t *testing.T) {
	t.Helper()
	oldSlot, _ := f.store.Slot(f.oldSlot.ID)
	newSlot, _ := f.store.Slot(f.newSlot.ID)
	assert.Equal(t, domain.SlotBooked, oldSlot.Status)
	assert.Equal(t, f.newSlot.Status, newSlot.Status)
	stored, _ := f.store.Appointment(f.appt.ID)
	assert.Equal(t, f.oldSlot.ID, *stored.SlotID)
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	appt, err := f.uc.Execute(context.Background(), &Request{Actor: patient, AppointmentID: f.appt.ID, NewSlotID: f.newSlot.ID})
	require.NoError(t, err)

	assert.Equal(t, f.newSlot.ID, *appt.SlotID)
	assert.Equal(t, f.newSlot.StartAt, appt.StartAt)
	assert.Equal(t, f.newSlot.EndAt, appt.EndAt)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)

	oldSlot, _ := f.store.Slot(f.oldSlot.ID)
	newSlot, _ := f.store.Slot(f.newSlot.ID)
	assert.Equal(t, domain.SlotAvailable, oldSlot.Status)
	assert.Equal(t, domain.SlotBooked, newSlot.Status)

	assert.Equal(t, []int64{f.appt.ID}, f.rec.rescheduled)
	assert.Equal(t, []int64{f.appt.ID}, f.rec.notified)
}

func TestExecute_NewSlotRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID, NewSlotID: 404})
		assert.ErrorIs(t, err, ErrSlotNotFound)
		f.assertSlotsUnchanged(t)
	})

	t.Run("slot booked", func(t *testing.T) {
		f := newFixture(t)
		f.newSlot = f.store.AddSlot(domain.Slot{ID: f.newSlot.ID, DoctorID: 3, StartAt: f.newSlot.StartAt, EndAt: f.newSlot.EndAt, Status: domain.SlotBooked})

		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		f.assertSlotsUnchanged(t)
	})

	t.Run("doctor on leave", func(t *testing.T) {
		f := newFixture(t)
		day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		f.store.AddException(domain.ScheduleException{DateFrom: day, DateTo: day, Type: domain.ExceptionUnavailable})

		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		f.assertSlotsUnchanged(t)
	})

	t.Run("another doctor", func(t *testing.T) {
		f := newFixture(t)
		foreign := f.store.AddSlot(domain.Slot{DoctorID: 4, StartAt: f.newSlot.StartAt, EndAt: f.newSlot.EndAt})

		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID, NewSlotID: foreign.ID})
		assert.ErrorIs(t, err, ErrDoctorMismatch)
		f.assertSlotsUnchanged(t)
		stored, _ := f.store.Slot(foreign.ID)
		assert.Equal(t, domain.SlotAvailable, stored.Status)
	})

	t.Run("policy", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.Execute(ctx, &Request{Actor: domain.Actor{UserID: 8, Role: domain.RolePatient}, AppointmentID: f.appt.ID, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
		f.assertSlotsUnchanged(t)
		assert.Empty(t, f.rec.rescheduled)
	})
}

func TestExecute_AppointmentRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown appointment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: 404, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("cancelled appointment", func(t *testing.T) {
		f := newFixture(t)
		cancelled := f.appt
		cancelled.Status = domain.StatusCancelled
		f.store.AddAppointment(cancelled)

		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, domain.ErrTerminalStatus)
	})

	t.Run("queue appointment", func(t *testing.T) {
		f := newFixture(t)
		queued := f.store.AddAppointment(domain.Appointment{PatientID: 7, DoctorID: 3, ScheduleID: ptr.Ptr(int64(90)),
			StartAt: f.newSlot.StartAt, EndAt: f.newSlot.EndAt, Status: domain.StatusConfirmed})

		_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: queued.ID, NewSlotID: f.newSlot.ID})
		assert.ErrorIs(t, err, ErrQueueAppointment)
	})
}
