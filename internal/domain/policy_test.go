package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func TestCancellationPolicy_Check(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	cfg := PolicyConfig{AllowAdminCancel: true, AllowDoctorCancel: true, PatientMinHoursBefore: 24}

	appt := func(startIn time.Duration) *Appointment {
		return &Appointment{PatientID: 7, DoctorID: 3, StartAt: now.Add(startIn), EndAt: now.Add(startIn + 30*time.Minute)}
	}

	patient := Actor{UserID: 7, Role: RolePatient}
	stranger := Actor{UserID: 8, Role: RolePatient}
	doctor := Actor{UserID: 30, Role: RoleDoctor, DoctorID: ptr.Ptr(int64(3))}
	otherDoctor := Actor{UserID: 40, Role: RoleDoctor, DoctorID: ptr.Ptr(int64(4))}
	admin := Actor{UserID: 1, Role: RoleAdmin}

	tests := []struct {
		name     string
		cfg      PolicyConfig
		actor    Actor
		appt     *Appointment
		wantErr  error
		wantKind apperrors.Kind
	}{
		{name: "patient with enough notice", cfg: cfg, actor: patient, appt: appt(48 * time.Hour)},
		{name: "patient too late", cfg: cfg, actor: patient, appt: appt(2 * time.Hour), wantErr: ErrTooLateToChange, wantKind: apperrors.KindValidation},
		{name: "patient after start", cfg: cfg, actor: patient, appt: appt(-time.Minute), wantErr: ErrAppointmentStarted, wantKind: apperrors.KindValidation},
		{name: "patient not owner", cfg: cfg, actor: stranger, appt: appt(48 * time.Hour), wantErr: ErrNotOwner, wantKind: apperrors.KindForbidden},
		{name: "doctor own appointment anytime", cfg: cfg, actor: doctor, appt: appt(time.Minute)},
		{name: "doctor foreign appointment", cfg: cfg, actor: otherDoctor, appt: appt(48 * time.Hour), wantErr: ErrNotOwner, wantKind: apperrors.KindForbidden},
		{name: "doctor disabled by config", cfg: PolicyConfig{AllowDoctorCancel: false}, actor: doctor, appt: appt(48 * time.Hour), wantErr: ErrCancellationDisabled, wantKind: apperrors.KindForbidden},
		{name: "admin anytime", cfg: cfg, actor: admin, appt: appt(-time.Hour)},
		{name: "admin disabled by config", cfg: PolicyConfig{}, actor: admin, appt: appt(48 * time.Hour), wantErr: ErrCancellationDisabled, wantKind: apperrors.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.For(tt.actor.Role).Check(tt.actor, tt.appt, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
		})
	}
}

func TestPolicyConfig_UnknownRoleIsDisabled(t *testing.T) {
	p := PolicyConfig{AllowAdminCancel: true}.For(Role("GUEST"))
	assert.False(t, p.Enabled)
}
