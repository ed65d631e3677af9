package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ExceptionType тип исключения из расписания
type ExceptionType string

const (
	// ExceptionUnavailable врач (или клиника) не принимает
	ExceptionUnavailable ExceptionType = "UNAVAILABLE"
	// ExceptionAvailable дополнительное рабочее время
	ExceptionAvailable ExceptionType = "AVAILABLE"
)

// ScheduleException исключение из расписания.
// Без DoctorID действует на всю клинику, без StartTime/EndTime - на весь день.
type ScheduleException struct {
	ID        int64
	DoctorID  *int64
	DateFrom  time.Time
	DateTo    time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Type      ExceptionType
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExceptionFilter фильтр списка исключений
type ExceptionFilter struct {
	DoctorID      *int64
	IncludeGlobal bool
	From          *time.Time
	To            *time.Time
	Type          *ExceptionType
}

// Validate проверяет согласованность полей
func (e *ScheduleException) Validate() error {
	if e.Type != ExceptionAvailable && e.Type != ExceptionUnavailable {
		return ErrInvalidException.WithMessage("type must be AVAILABLE or UNAVAILABLE")
	}
	if e.DateTo.Before(e.DateFrom) {
		return ErrInvalidException.WithMessage("date_to must not be before date_from")
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return ErrInvalidException.WithMessage("start_time and end_time must be set together")
	}
	if e.StartTime != nil {
		start, err := e.StartTime.Minutes()
		if err != nil {
			return ErrInvalidException.WithMessage("invalid start_time %q", *e.StartTime)
		}
		end, err := e.EndTime.Minutes()
		if err != nil {
			return ErrInvalidException.WithMessage("invalid end_time %q", *e.EndTime)
		}
		if end <= start {
			return ErrInvalidException.WithMessage("end_time must be after start_time")
		}
	}
	if e.Type == ExceptionAvailable {
		if e.DoctorID == nil {
			return ErrInvalidException.WithMessage("AVAILABLE exception requires doctor_id")
		}
		if e.StartTime == nil {
			return ErrInvalidException.WithMessage("AVAILABLE exception requires start_time and end_time")
		}
	}
	return nil
}

// IsFullDay исключение действует весь день
func (e *ScheduleException) IsFullDay() bool {
	return e.StartTime == nil || e.EndTime == nil
}

// IsGlobal исключение действует для всех врачей
func (e *ScheduleException) IsGlobal() bool {
	return e.DoctorID == nil
}

// AppliesTo проверяет, что исключение относится к врачу
func (e *ScheduleException) AppliesTo(doctorID int64) bool {
	return e.DoctorID == nil || *e.DoctorID == doctorID
}

// Days количество дней, на которые распространяется исключение
func (e *ScheduleException) Days() int {
	return timewindow.CountDaysInclusive(e.DateFrom.Format(DateFormat), e.DateTo.Format(DateFormat))
}

// CoversDate проверяет, что дата попадает в [DateFrom, DateTo]
func (e *ScheduleException) CoversDate(date time.Time, loc *time.Location) bool {
	day := timewindow.DateOnly(date, loc).Format(DateFormat)
	return day >= e.DateFrom.Format(DateFormat) && day <= e.DateTo.Format(DateFormat)
}

// BlocksSlot проверяет, пересекается ли интервал [start, end) с исключением.
// Интервал через полночь проверяется по каждому затронутому календарному дню.
// Тип исключения не учитывается, см. SlotBlockedByExceptions.
func (e *ScheduleException) BlocksSlot(start, end time.Time, doctorID int64, loc *time.Location) bool {
	if !e.AppliesTo(doctorID) || !end.After(start) {
		return false
	}

	for day := timewindow.DateOnly(start, loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		if e.blocksOnDay(day, start, end, loc) {
			return true
		}
	}
	return false
}

// blocksOnDay проверяет часть интервала [start, end), приходящуюся на день day
func (e *ScheduleException) blocksOnDay(day, start, end time.Time, loc *time.Location) bool {
	if !e.CoversDate(day, loc) {
		return false
	}
	if e.IsFullDay() {
		return true
	}

	exStart, err := e.StartTime.Minutes()
	if err != nil {
		return false
	}
	exEnd, err := e.EndTime.Minutes()
	if err != nil {
		return false
	}

	segStart := 0
	if start.After(day) {
		segStart = timewindow.MinutesOfDay(start, loc)
	}
	segEnd := timewindow.MinutesPerDay
	if next := day.AddDate(0, 0, 1); end.Before(next) {
		segEnd = timewindow.MinutesOfDay(end, loc)
	}

	return timewindow.TimesOverlap(segStart, segEnd, exStart, exEnd)
}

// SlotBlockedByExceptions проверяет слот против всех UNAVAILABLE-исключений
func SlotBlockedByExceptions(start, end time.Time, doctorID int64, exceptions []*ScheduleException, loc *time.Location) bool {
	for _, e := range exceptions {
		if e.Type != ExceptionUnavailable {
			continue
		}
		if e.BlocksSlot(start, end, doctorID, loc) {
			return true
		}
	}
	return false
}
