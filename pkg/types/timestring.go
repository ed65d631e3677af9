package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, если результат арифметики выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в формате HH:MM
type TimeString string

// NewTimeString создаёт TimeString из time.Time (часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит и валидирует строку HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if _, err := timewindow.ParseTimeToMinutes(string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	m, err := timewindow.ParseTimeToMinutes(string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return m, nil
}

// MustMinutes используется для значений, уже прошедших Validate
func (t TimeString) MustMinutes() int {
	m, err := t.Minutes()
	if err != nil {
		panic(err)
	}
	return m
}

// AddMinutes прибавляет минуты, результат должен остаться в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total := m + minutes
	if total < 0 || total >= timewindow.MinutesPerDay {
		return "", fmt.Errorf("%w: %s + %d min", ErrTimeOverflow, t, minutes)
	}
	return TimeString(timewindow.FormatMinutes(total)), nil
}

// IsBefore сравнивает время суток (некорректные значения считаются полуночью)
func (t TimeString) IsBefore(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a > b
}

// OnDate возвращает момент времени t на дате date в локации loc
func (t TimeString) OnDate(date time.Time, loc *time.Location) (time.Time, error) {
	m, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return timewindow.AtMinutes(date, m, loc), nil
}

// Scan реализует sql.Scanner: принимает "HH:MM", "HH:MM:SS" и time.Time (колонки TIME)
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
