package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func recurring(day int, start, end string) *Availability {
	return &Availability{
		DoctorID:    1,
		IsRecurring: true,
		DayOfWeek:   ptr.Ptr(day),
		StartTime:   typesTime(start),
		EndTime:     typesTime(end),
		ValidFrom:   ptr.Ptr(date("2026-01-01")),
	}
}

func oneTime(start, end time.Time) *Availability {
	return &Availability{DoctorID: 1, StartAt: ptr.Ptr(start), EndAt: ptr.Ptr(end)}
}

func TestAvailability_Validate(t *testing.T) {
	require.NoError(t, recurring(1, "09:00", "12:00").Validate())
	assert.ErrorIs(t, recurring(7, "09:00", "12:00").Validate(), ErrInvalidAvailability)
	assert.ErrorIs(t, recurring(1, "12:00", "09:00").Validate(), ErrInvalidAvailability)
	assert.ErrorIs(t, recurring(1, "9:00", "12:00").Validate(), ErrInvalidAvailability)

	noValidFrom := recurring(1, "09:00", "12:00")
	noValidFrom.ValidFrom = nil
	assert.ErrorIs(t, noValidFrom.Validate(), ErrInvalidAvailability)

	inverted := recurring(1, "09:00", "12:00")
	inverted.ValidFrom = ptr.Ptr(date("2026-03-10"))
	inverted.ValidTo = ptr.Ptr(date("2026-03-01"))
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidAvailability)

	require.NoError(t, oneTime(at("2026-03-10", "09:00"), at("2026-03-10", "10:00")).Validate())
	assert.ErrorIs(t, oneTime(at("2026-03-10", "10:00"), at("2026-03-10", "10:00")).Validate(), ErrInvalidAvailability)
	assert.ErrorIs(t, (&Availability{DoctorID: 1}).Validate(), ErrInvalidAvailability)
}

func TestAvailability_Contains(t *testing.T) {
	loc := time.UTC
	// 2026-03-09 - понедельник
	monday := recurring(1, "09:00", "12:00")
	monday.ValidFrom = ptr.Ptr(date("2026-03-01"))
	monday.ValidTo = ptr.Ptr(date("2026-03-31"))

	assert.True(t, monday.Contains(at("2026-03-09", "09:00"), at("2026-03-09", "09:30"), loc))
	assert.True(t, monday.Contains(at("2026-03-09", "11:30"), at("2026-03-09", "12:00"), loc))
	assert.False(t, monday.Contains(at("2026-03-09", "11:45"), at("2026-03-09", "12:15"), loc))
	assert.False(t, monday.Contains(at("2026-03-10", "09:00"), at("2026-03-10", "09:30"), loc), "tuesday")
	assert.False(t, monday.Contains(at("2026-04-06", "09:00"), at("2026-04-06", "09:30"), loc), "after valid_to")

	single := oneTime(at("2026-03-10", "14:00"), at("2026-03-10", "16:00"))
	assert.True(t, single.Contains(at("2026-03-10", "14:00"), at("2026-03-10", "16:00"), loc))
	assert.False(t, single.Contains(at("2026-03-10", "13:59"), at("2026-03-10", "14:30"), loc))
}

func TestAvailability_Overlaps(t *testing.T) {
	loc := time.UTC

	assert.True(t, recurring(1, "09:00", "12:00").Overlaps(recurring(1, "11:00", "13:00"), loc))
	assert.False(t, recurring(1, "09:00", "12:00").Overlaps(recurring(1, "12:00", "13:00"), loc))
	assert.False(t, recurring(1, "09:00", "12:00").Overlaps(recurring(2, "09:00", "12:00"), loc))

	march := recurring(1, "09:00", "12:00")
	march.ValidTo = ptr.Ptr(date("2026-03-31"))
	april := recurring(1, "09:00", "12:00")
	april.ValidFrom = ptr.Ptr(date("2026-04-01"))
	assert.False(t, march.Overlaps(april, loc))

	a := oneTime(at("2026-03-10", "09:00"), at("2026-03-10", "10:00"))
	b := oneTime(at("2026-03-10", "09:30"), at("2026-03-10", "11:00"))
	assert.True(t, a.Overlaps(b, loc))

	mondayOneTime := oneTime(at("2026-03-09", "11:30"), at("2026-03-09", "13:00"))
	assert.True(t, recurring(1, "09:00", "12:00").Overlaps(mondayOneTime, loc))
	assert.True(t, mondayOneTime.Overlaps(recurring(1, "09:00", "12:00"), loc))
	assert.False(t, recurring(2, "09:00", "12:00").Overlaps(mondayOneTime, loc))
}
