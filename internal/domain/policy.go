package domain

import "time"

// CancellationPolicy правила отмены и переноса записи для одной роли
type CancellationPolicy struct {
	Enabled          bool
	CanCancelAnytime bool
	OwnOnly          bool
	MinNoticeHours   float64
}

// PolicyConfig настройки политик из конфигурации
type PolicyConfig struct {
	AllowAdminCancel      bool
	AllowDoctorCancel     bool
	PatientMinHoursBefore float64
}

// For возвращает политику для роли
func (c PolicyConfig) For(role Role) CancellationPolicy {
	switch role {
	case RoleAdmin:
		return CancellationPolicy{Enabled: c.AllowAdminCancel, CanCancelAnytime: true}
	case RoleDoctor:
		return CancellationPolicy{Enabled: c.AllowDoctorCancel, CanCancelAnytime: true, OwnOnly: true}
	case RolePatient:
		return CancellationPolicy{Enabled: true, OwnOnly: true, MinNoticeHours: c.PatientMinHoursBefore}
	}
	return CancellationPolicy{}
}

// Check проверяет, может ли актор отменить или перенести запись
func (p CancellationPolicy) Check(actor Actor, appt *Appointment, now time.Time) error {
	if !p.Enabled {
		return ErrCancellationDisabled.WithMessage("role %s is not allowed to change appointments", actor.Role)
	}

	if p.OwnOnly && !owns(actor, appt) {
		return ErrNotOwner
	}

	if p.CanCancelAnytime {
		return nil
	}

	hours := appt.HoursUntilStart(now)
	if hours <= 0 {
		return ErrAppointmentStarted
	}
	if hours < p.MinNoticeHours {
		return ErrTooLateToChange.WithMessage(
			"appointments can be changed at least %.0f hours in advance, %.1f hours left", p.MinNoticeHours, hours)
	}

	return nil
}

func owns(actor Actor, appt *Appointment) bool {
	switch actor.Role {
	case RolePatient:
		return appt.PatientID == actor.UserID
	case RoleDoctor:
		return actor.IsDoctor(appt.DoctorID)
	case RoleAdmin:
		return true
	}
	return false
}
