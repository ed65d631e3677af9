package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Schedule окно приёма врача с ограничением по числу пациентов (живая очередь)
type Schedule struct {
	ID          int64
	DoctorID    int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MaxPatients int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisabledReason причина, по которой окно недоступно для записи
type DisabledReason string

const (
	DisabledPast                 DisabledReason = "PAST"
	DisabledFull                 DisabledReason = "FULL"
	DisabledPaymentNotConfigured DisabledReason = "PAYMENT_NOT_CONFIGURED"
)

// AvailabilityWindow окно приёма с вычисленной загрузкой
type AvailabilityWindow struct {
	Schedule       *Schedule
	ConfirmedCount int
	Remaining      int
	IsBookable     bool
	DisabledReason *DisabledReason
}

// Validate проверяет параметры окна
func (s *Schedule) Validate() error {
	if s.DoctorID <= 0 {
		return ErrInvalidSchedule.WithMessage("doctor_id is required")
	}
	if s.MaxPatients < MinMaxPatients {
		return ErrInvalidSchedule.WithMessage("max_patients must be at least %d", MinMaxPatients)
	}
	start, err := s.StartTime.Minutes()
	if err != nil {
		return ErrInvalidSchedule.WithMessage("invalid start_time %q", s.StartTime)
	}
	end, err := s.EndTime.Minutes()
	if err != nil {
		return ErrInvalidSchedule.WithMessage("invalid end_time %q", s.EndTime)
	}
	if end <= start {
		return ErrInvalidSchedule.WithMessage("start_time must be before end_time")
	}
	return nil
}

// SameWindow окна совпадают (врач, дата и время)
func (s *Schedule) SameWindow(other *Schedule) bool {
	return s.DoctorID == other.DoctorID &&
		s.Date.Format(DateFormat) == other.Date.Format(DateFormat) &&
		s.StartTime == other.StartTime &&
		s.EndTime == other.EndTime
}

// Overlaps окна одного врача пересекаются в один день
func (s *Schedule) Overlaps(other *Schedule) bool {
	if s.DoctorID != other.DoctorID || s.Date.Format(DateFormat) != other.Date.Format(DateFormat) {
		return false
	}
	return timewindow.TimesOverlap(s.StartTime.MustMinutes(), s.EndTime.MustMinutes(),
		other.StartTime.MustMinutes(), other.EndTime.MustMinutes())
}

// StartAt момент начала окна в часовом поясе клиники
func (s *Schedule) StartAt(loc *time.Location) time.Time {
	return dateAt(s.Date, s.StartTime, loc)
}

// EndAt момент окончания окна в часовом поясе клиники
func (s *Schedule) EndAt(loc *time.Location) time.Time {
	return dateAt(s.Date, s.EndTime, loc)
}

func dateAt(date time.Time, t types.TimeString, loc *time.Location) time.Time {
	// Date хранится как календарная дата без часового пояса
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	m, err := t.Minutes()
	if err != nil {
		return day
	}
	return timewindow.AtMinutes(day, m, loc)
}

// BuildAvailabilityWindow вычисляет загрузку окна и причину недоступности.
// Приоритет причин: PAST, затем FULL, затем PAYMENT_NOT_CONFIGURED.
func BuildAvailabilityWindow(s *Schedule, confirmed int, paymentReady bool, now time.Time, loc *time.Location) AvailabilityWindow {
	remaining := s.MaxPatients - confirmed
	if remaining < 0 {
		remaining = 0
	}

	w := AvailabilityWindow{
		Schedule:       s,
		ConfirmedCount: confirmed,
		Remaining:      remaining,
	}

	var reason DisabledReason
	switch {
	case !now.Before(s.EndAt(loc)):
		reason = DisabledPast
	case remaining == 0:
		reason = DisabledFull
	case !paymentReady:
		reason = DisabledPaymentNotConfigured
	default:
		w.IsBookable = true
		return w
	}

	w.DisabledReason = &reason
	return w
}
