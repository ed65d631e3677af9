package cancel_appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

var (
	patient = domain.Actor{UserID: 7, Role: domain.RolePatient}
	doctor  = domain.Actor{UserID: 30, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(3))}
	admin   = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

type recorder struct {
	cancelled []int64
	notified  []string
}

func (r *recorder) Cancel(_ context.Context, appointmentID int64) error {
	r.cancelled = append(r.cancelled, appointmentID)
	return nil
}

func (r *recorder) AppointmentCancelled(_ context.Context, _ *domain.Appointment, reason string) {
	r.notified = append(r.notified, reason)
}

type fixture struct {
	uc    *UseCase
	store *memstore.Store
	rec   *recorder
	slot  domain.Slot
	appt  domain.Appointment
}

func newFixture(t *testing.T, policies domain.PolicyConfig, startsIn time.Duration) fixture {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }

	start := now.Add(startsIn)
	slot := store.AddSlot(domain.Slot{DoctorID: 3, StartAt: start, EndAt: start.Add(30 * time.Minute), Status: domain.SlotBooked})
	appt := store.AddAppointment(domain.Appointment{
		PatientID: 7,
		DoctorID:  3,
		SlotID:    ptr.Ptr(slot.ID),
		StartAt:   slot.StartAt,
		EndAt:     slot.EndAt,
		Status:    domain.StatusConfirmed,
		Notes:     ptr.Ptr("первичный приём"),
	})

	rec := &recorder{}
	uc := NewUseCase(store.AppointmentsRepo(), store.Slots(), rec, rec, store, policies, logger.Nop())
	uc.timeProvider = clock.NewFixed(now)

	return fixture{uc: uc, store: store, rec: rec, slot: slot, appt: appt}
}

var defaultPolicies = domain.PolicyConfig{AllowAdminCancel: true, AllowDoctorCancel: true, PatientMinHoursBefore: 24}

func TestExecute_PatientCancels(t *testing.T) {
	f := newFixture(t, defaultPolicies, 48*time.Hour)

	appt, err := f.uc.Execute(context.Background(), &Request{Actor: patient, AppointmentID: f.appt.ID, Reason: "  заболел  "})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, appt.Status)
	assert.Equal(t, "первичный приём\nCancelled by PATIENT: заболел", *appt.Notes)

	slot, _ := f.store.Slot(f.slot.ID)
	assert.Equal(t, domain.SlotAvailable, slot.Status)
	stored, _ := f.store.Appointment(f.appt.ID)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	assert.Equal(t, []int64{f.appt.ID}, f.rec.cancelled)
	assert.Equal(t, []string{"заболел"}, f.rec.notified)
}

func TestExecute_PaidAppointmentNeedsRefund(t *testing.T) {
	f := newFixture(t, defaultPolicies, 48*time.Hour)
	paid := f.appt
	paid.PaymentStatus = domain.PaymentPaid
	f.store.AddAppointment(paid)

	appt, err := f.uc.Execute(context.Background(), &Request{Actor: admin, AppointmentID: f.appt.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentRefundRequired, appt.PaymentStatus)
	assert.Equal(t, "первичный приём\nCancelled by ADMIN", *appt.Notes)
}

func TestExecute_Policies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		policies domain.PolicyConfig
		startsIn time.Duration
		actor    domain.Actor
		wantErr  error
	}{
		{name: "patient too late", policies: defaultPolicies, startsIn: 2 * time.Hour, actor: patient, wantErr: domain.ErrTooLateToChange},
		{name: "patient after start", policies: defaultPolicies, startsIn: -time.Minute, actor: patient, wantErr: domain.ErrAppointmentStarted},
		{name: "other patient", policies: defaultPolicies, startsIn: 48 * time.Hour, actor: domain.Actor{UserID: 8, Role: domain.RolePatient}, wantErr: domain.ErrNotOwner},
		{name: "doctor disabled", policies: domain.PolicyConfig{AllowAdminCancel: true}, startsIn: 48 * time.Hour, actor: doctor, wantErr: domain.ErrCancellationDisabled},
		{name: "other doctor", policies: defaultPolicies, startsIn: 48 * time.Hour, actor: domain.Actor{UserID: 40, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(int64(4))}, wantErr: domain.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.policies, tt.startsIn)

			_, err := f.uc.Execute(ctx, &Request{Actor: tt.actor, AppointmentID: f.appt.ID})
			assert.ErrorIs(t, err, tt.wantErr)

			slot, _ := f.store.Slot(f.slot.ID)
			assert.Equal(t, domain.SlotBooked, slot.Status)
			assert.Empty(t, f.rec.cancelled)
		})
	}

	t.Run("doctor cancels own appointment at any time", func(t *testing.T) {
		f := newFixture(t, defaultPolicies, time.Hour)
		_, err := f.uc.Execute(ctx, &Request{Actor: doctor, AppointmentID: f.appt.ID})
		assert.NoError(t, err)
	})
}

func TestExecute_TerminalAndMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultPolicies, 48*time.Hour)

	_, err := f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: f.appt.ID})
	assert.ErrorIs(t, err, domain.ErrTerminalStatus)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.uc.Execute(ctx, &Request{Actor: admin, AppointmentID: 404})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	f := newFixture(t, defaultPolicies, 48*time.Hour)
	reason := strings.Repeat("я", domain.MaxCancellationReasonLength+1)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: admin, AppointmentID: f.appt.ID, Reason: reason})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
