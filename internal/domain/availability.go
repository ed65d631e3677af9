package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Availability рабочее время врача.
// Повторяющееся (IsRecurring) задаётся днём недели и временем суток в часовом поясе клиники
// и действует в пределах ValidFrom..ValidTo. Разовое задаётся абсолютным интервалом StartAt..EndAt.
type Availability struct {
	ID          int64
	DoctorID    int64
	IsRecurring bool

	DayOfWeek *int // 0 - воскресенье
	StartTime types.TimeString
	EndTime   types.TimeString

	StartAt *time.Time
	EndAt   *time.Time

	ValidFrom *time.Time
	ValidTo   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет согласованность полей
func (a *Availability) Validate() error {
	if a.DoctorID <= 0 {
		return ErrInvalidAvailability.WithMessage("doctor_id is required")
	}

	if a.IsRecurring {
		if a.DayOfWeek == nil || *a.DayOfWeek < 0 || *a.DayOfWeek > 6 {
			return ErrInvalidAvailability.WithMessage("day_of_week must be between 0 and 6")
		}
		start, err := a.StartTime.Minutes()
		if err != nil {
			return ErrInvalidAvailability.WithMessage("invalid start_time %q", a.StartTime)
		}
		end, err := a.EndTime.Minutes()
		if err != nil {
			return ErrInvalidAvailability.WithMessage("invalid end_time %q", a.EndTime)
		}
		if end <= start {
			return ErrInvalidAvailability.WithMessage("end_time must be after start_time")
		}
		if a.ValidFrom == nil {
			return ErrInvalidAvailability.WithMessage("valid_from is required for recurring availability")
		}
		if a.ValidTo != nil && a.ValidTo.Before(*a.ValidFrom) {
			return ErrInvalidAvailability.WithMessage("valid_to must not be before valid_from")
		}
		return nil
	}

	if a.StartAt == nil || a.EndAt == nil {
		return ErrInvalidAvailability.WithMessage("start_at and end_at are required for one-time availability")
	}
	if !a.EndAt.After(*a.StartAt) {
		return ErrInvalidAvailability.WithMessage("end_at must be after start_at")
	}

	return nil
}

// ActiveOn проверяет, что повторяющееся окно действует на дату date
func (a *Availability) ActiveOn(date time.Time, loc *time.Location) bool {
	if !a.IsRecurring || a.DayOfWeek == nil {
		return false
	}
	day := timewindow.DateOnly(date, loc)
	if int(day.Weekday()) != *a.DayOfWeek {
		return false
	}
	if a.ValidFrom != nil && day.Before(timewindow.CalendarDate(*a.ValidFrom, loc)) {
		return false
	}
	if a.ValidTo != nil && day.After(timewindow.CalendarDate(*a.ValidTo, loc)) {
		return false
	}
	return true
}

// Contains проверяет, что интервал [start, end) целиком лежит внутри окна
func (a *Availability) Contains(start, end time.Time, loc *time.Location) bool {
	if !a.IsRecurring {
		if a.StartAt == nil || a.EndAt == nil {
			return false
		}
		return !start.Before(*a.StartAt) && !end.After(*a.EndAt)
	}

	if !a.ActiveOn(start, loc) {
		return false
	}
	// Повторяющееся окно не переходит через полночь
	if !timewindow.DateOnly(start, loc).Equal(timewindow.DateOnly(end.Add(-time.Nanosecond), loc)) {
		return false
	}

	windowStart, err := a.StartTime.Minutes()
	if err != nil {
		return false
	}
	windowEnd, err := a.EndTime.Minutes()
	if err != nil {
		return false
	}
	startMin := timewindow.MinutesOfDay(start, loc)
	endMin := startMin + int(end.Sub(start).Minutes())

	return startMin >= windowStart && endMin <= windowEnd
}

// Overlaps проверяет пересечение двух окон одного врача
func (a *Availability) Overlaps(other *Availability, loc *time.Location) bool {
	switch {
	case a.IsRecurring && other.IsRecurring:
		if a.DayOfWeek == nil || other.DayOfWeek == nil || *a.DayOfWeek != *other.DayOfWeek {
			return false
		}
		if !validityIntersects(a, other) {
			return false
		}
		return timewindow.TimesOverlap(a.StartTime.MustMinutes(), a.EndTime.MustMinutes(),
			other.StartTime.MustMinutes(), other.EndTime.MustMinutes())

	case !a.IsRecurring && !other.IsRecurring:
		return timewindow.RangesOverlap(*a.StartAt, *a.EndAt, *other.StartAt, *other.EndAt)

	case a.IsRecurring:
		return recurringOverlapsOneTime(a, other, loc)

	default:
		return recurringOverlapsOneTime(other, a, loc)
	}
}

func recurringOverlapsOneTime(recurring, oneTime *Availability, loc *time.Location) bool {
	day := timewindow.DateOnly(*oneTime.StartAt, loc)
	last := timewindow.DateOnly(*oneTime.EndAt, loc)

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !recurring.ActiveOn(day, loc) {
			continue
		}
		start, err := recurring.StartTime.OnDate(day, loc)
		if err != nil {
			return false
		}
		end, err := recurring.EndTime.OnDate(day, loc)
		if err != nil {
			return false
		}
		if timewindow.RangesOverlap(start, end, *oneTime.StartAt, *oneTime.EndAt) {
			return true
		}
	}

	return false
}

func validityIntersects(a, b *Availability) bool {
	if a.ValidTo != nil && b.ValidFrom != nil && a.ValidTo.Before(*b.ValidFrom) {
		return false
	}
	if b.ValidTo != nil && a.ValidFrom != nil && b.ValidTo.Before(*a.ValidFrom) {
		return false
	}
	return true
}
