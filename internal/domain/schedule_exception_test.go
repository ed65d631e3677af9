package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func date(s string) time.Time {
	d, _ := time.Parse(DateFormat, s)
	return d
}

func at(day, hhmm string) time.Time {
	t, _ := time.Parse(DateFormat+" 15:04", day+" "+hhmm)
	return t
}

func TestScheduleException_BlocksSlot(t *testing.T) {
	loc := time.UTC
	partial := &ScheduleException{
		DoctorID:  ptr.Ptr(int64(1)),
		DateFrom:  date("2026-03-10"),
		DateTo:    date("2026-03-12"),
		StartTime: ptr.Ptr(types.TimeString("12:00")),
		EndTime:   ptr.Ptr(types.TimeString("13:00")),
		Type:      ExceptionUnavailable,
	}
	fullDayGlobal := &ScheduleException{
		DateFrom: date("2026-03-15"),
		DateTo:   date("2026-03-15"),
		Type:     ExceptionUnavailable,
	}

	tests := []struct {
		name     string
		ex       *ScheduleException
		start    time.Time
		end      time.Time
		doctorID int64
		want     bool
	}{
		{"overlap inside range", partial, at("2026-03-11", "12:30"), at("2026-03-11", "13:00"), 1, true},
		{"slot ends at exception start", partial, at("2026-03-11", "11:30"), at("2026-03-11", "12:00"), 1, false},
		{"slot starts at exception end", partial, at("2026-03-11", "13:00"), at("2026-03-11", "13:30"), 1, false},
		{"other doctor", partial, at("2026-03-11", "12:30"), at("2026-03-11", "13:00"), 2, false},
		{"date outside range", partial, at("2026-03-13", "12:30"), at("2026-03-13", "13:00"), 1, false},
		{"last day inclusive", partial, at("2026-03-12", "12:15"), at("2026-03-12", "12:45"), 1, true},
		{"global full day", fullDayGlobal, at("2026-03-15", "08:00"), at("2026-03-15", "08:30"), 42, true},
		{"global full day other date", fullDayGlobal, at("2026-03-16", "08:00"), at("2026-03-16", "08:30"), 42, false},
		{"overnight reaches next day exception", partial, at("2026-03-09", "20:00"), at("2026-03-10", "12:30"), 1, true},
		{"overnight ends before next day exception", partial, at("2026-03-09", "20:00"), at("2026-03-10", "11:00"), 1, false},
		{"overnight into full day", fullDayGlobal, at("2026-03-14", "22:00"), at("2026-03-15", "00:30"), 5, true},
		{"ends exactly at midnight", fullDayGlobal, at("2026-03-14", "22:00"), at("2026-03-15", "00:00"), 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ex.BlocksSlot(tt.start, tt.end, tt.doctorID, loc))
		})
	}
}

func TestSlotBlockedByExceptions_IgnoresAvailableType(t *testing.T) {
	extra := &ScheduleException{
		DoctorID:  ptr.Ptr(int64(1)),
		DateFrom:  date("2026-03-10"),
		DateTo:    date("2026-03-10"),
		StartTime: ptr.Ptr(types.TimeString("09:00")),
		EndTime:   ptr.Ptr(types.TimeString("10:00")),
		Type:      ExceptionAvailable,
	}
	start, end := at("2026-03-10", "09:00"), at("2026-03-10", "09:30")

	assert.False(t, SlotBlockedByExceptions(start, end, 1, []*ScheduleException{extra}, time.UTC))

	extra.Type = ExceptionUnavailable
	assert.True(t, SlotBlockedByExceptions(start, end, 1, []*ScheduleException{extra}, time.UTC))
}

func TestScheduleException_Validate(t *testing.T) {
	valid := ScheduleException{DateFrom: date("2026-03-10"), DateTo: date("2026-03-10"), Type: ExceptionUnavailable}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, 1, valid.Days())

	inverted := valid
	inverted.DateTo = date("2026-03-09")
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidException)

	halfTime := valid
	halfTime.StartTime = ptr.Ptr(types.TimeString("10:00"))
	assert.ErrorIs(t, halfTime.Validate(), ErrInvalidException)

	backwards := valid
	backwards.StartTime = ptr.Ptr(types.TimeString("11:00"))
	backwards.EndTime = ptr.Ptr(types.TimeString("10:00"))
	assert.ErrorIs(t, backwards.Validate(), ErrInvalidException)

	availableWithoutDoctor := valid
	availableWithoutDoctor.Type = ExceptionAvailable
	availableWithoutDoctor.StartTime = ptr.Ptr(types.TimeString("10:00"))
	availableWithoutDoctor.EndTime = ptr.Ptr(types.TimeString("11:00"))
	assert.ErrorIs(t, availableWithoutDoctor.Validate(), ErrInvalidException)

	badType := valid
	badType.Type = "MAYBE"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidException)
}
