package timewindow

import (
	"regexp"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

const (
	// DateLayout формат даты YYYY-MM-DD
	DateLayout = "2006-01-02"

	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени HH:mm
	ErrInvalidTime = apperrors.Validation("INVALID_TIME", "time must be in HH:mm format (00:00-23:59)")

	hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// ParseTimeToMinutes переводит строку HH:mm в количество минут от начала суток
func ParseTimeToMinutes(s string) (int, error) {
	m := hhmmPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidTime.WithMessage("invalid time %q: expected HH:mm (00:00-23:59)", s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	return hours*60 + minutes, nil
}

// FormatMinutes обратная операция к ParseTimeToMinutes
func FormatMinutes(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}

// TimesOverlap проверяет пересечение полуоткрытых интервалов [aStart,aEnd) и [bStart,bEnd).
// Интервалы, которые только касаются границами, не пересекаются.
func TimesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// RangesOverlap то же, что TimesOverlap, для абсолютного времени
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CountDaysInclusive считает количество дней в диапазоне дат включительно.
// Для некорректных или перевёрнутых диапазонов возвращает 0, а не ошибку.
func CountDaysInclusive(dateFrom, dateTo string) int {
	from, err := time.Parse(DateLayout, dateFrom)
	if err != nil {
		return 0
	}
	to, err := time.Parse(DateLayout, dateTo)
	if err != nil {
		return 0
	}
	if to.Before(from) {
		return 0
	}

	return int(to.Sub(from).Hours()/24) + 1
}

// DateOnly обнуляет время, оставляя дату в указанной локации
func DateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CalendarDate переносит календарную дату t (колонка DATE) в локацию loc без пересчёта часового пояса
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AtMinutes возвращает момент времени на дате date через minutes минут после полуночи
func AtMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	d := DateOnly(date, loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minutes, 0, 0, loc)
}

// MinutesOfDay возвращает количество минут от полуночи для t в локации loc
func MinutesOfDay(t time.Time, loc *time.Location) int {
	t = t.In(loc)
	return t.Hour()*60 + t.Minute()
}
