package domain

import (
	"strings"
	"time"
)

// AppointmentStatus статус записи на приём
type AppointmentStatus string

const (
	StatusPending        AppointmentStatus = "PENDING"
	StatusPendingPayment AppointmentStatus = "PENDING_PAYMENT"
	StatusConfirmed      AppointmentStatus = "CONFIRMED"
	StatusBooked         AppointmentStatus = "BOOKED" // синоним CONFIRMED для записей по окнам приёма
	StatusCompleted      AppointmentStatus = "COMPLETED"
	StatusCancelled      AppointmentStatus = "CANCELLED"
	StatusNoShow         AppointmentStatus = "NO_SHOW"
)

// PaymentStatus статус оплаты записи
type PaymentStatus string

const (
	PaymentNone           PaymentStatus = ""
	PaymentPending        PaymentStatus = "PENDING"
	PaymentPaid           PaymentStatus = "PAID"
	PaymentRefundRequired PaymentStatus = "REFUND_REQUIRED"
)

// Appointment запись пациента к врачу
type Appointment struct {
	ID             int64
	PatientID      int64
	DoctorID       int64
	AvailabilityID *int64
	SlotID         *int64
	ScheduleID     *int64
	StartAt        time.Time
	EndAt          time.Time
	Status         AppointmentStatus
	Notes          *string

	PaymentStatus   PaymentStatus
	PaymentIntentID *string
	AmountCents     *int64
	Currency        *string
	QueueNumber     *int

	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AppointmentFilter фильтр списка записей
type AppointmentFilter struct {
	PatientID       *int64
	DoctorID        *int64
	Statuses        []AppointmentStatus
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
	Limit           uint64
	Offset          uint64
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPendingPayment, StatusConfirmed, StatusBooked,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal возвращает true для статусов без исходящих переходов
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// IsConfirmed CONFIRMED и BOOKED равнозначны
func (s AppointmentStatus) IsConfirmed() bool {
	return s == StatusConfirmed || s == StatusBooked
}

// IsAwaiting запись ещё не подтверждена
func (s AppointmentStatus) IsAwaiting() bool {
	return s == StatusPending || s == StatusPendingPayment
}

// HoursUntilStart количество часов до начала приёма (отрицательное, если приём начался)
func (a *Appointment) HoursUntilStart(now time.Time) float64 {
	return a.StartAt.Sub(now).Hours()
}

// HasStarted проверяет, что приём уже начался
func (a *Appointment) HasStarted(now time.Time) bool {
	return !now.Before(a.StartAt)
}

// DurationMinutes длительность приёма
func (a *Appointment) DurationMinutes() int {
	return int(a.EndAt.Sub(a.StartAt).Minutes())
}

// AppendNote дописывает строку к заметкам записи
func (a *Appointment) AppendNote(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if a.Notes == nil || *a.Notes == "" {
		a.Notes = &line
		return
	}
	joined := *a.Notes + "\n" + line
	a.Notes = &joined
}
