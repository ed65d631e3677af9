package domain

import "time"

// Reminder напоминание пациенту о записи
type Reminder struct {
	ID            int64
	AppointmentID int64
	ScheduledFor  time.Time
	SentAt        *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
}

// ReminderTime момент отправки напоминания: за 24 часа, если до приёма больше суток, иначе за час.
// Если и этот момент прошёл, напоминание уходит при ближайшем запуске.
func ReminderTime(startAt, now time.Time) time.Time {
	if startAt.Sub(now) > ReminderLeadLong {
		return startAt.Add(-ReminderLeadLong)
	}
	at := startAt.Add(-ReminderLeadShort)
	if at.Before(now) {
		return now
	}
	return at
}

// IsPending напоминание ещё не отправлено и не отменено
func (r *Reminder) IsPending() bool {
	return r.SentAt == nil && r.CancelledAt == nil
}
