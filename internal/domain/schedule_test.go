package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func typesTime(s string) types.TimeString {
	return types.TimeString(s)
}

func schedule(start, end string, maxPatients int) *Schedule {
	return &Schedule{
		ID:          1,
		DoctorID:    5,
		Date:        date("2026-03-10"),
		StartTime:   typesTime(start),
		EndTime:     typesTime(end),
		MaxPatients: maxPatients,
	}
}

func TestSchedule_Validate(t *testing.T) {
	require.NoError(t, schedule("09:00", "12:00", 10).Validate())
	assert.ErrorIs(t, schedule("09:00", "12:00", 0).Validate(), ErrInvalidSchedule)
	assert.ErrorIs(t, schedule("12:00", "09:00", 10).Validate(), ErrInvalidSchedule)
	assert.ErrorIs(t, schedule("12:00", "12:00", 10).Validate(), ErrInvalidSchedule)
}

func TestSchedule_OverlapAndDuplicate(t *testing.T) {
	base := schedule("09:00", "12:00", 10)

	assert.True(t, base.SameWindow(schedule("09:00", "12:00", 3)))
	assert.True(t, base.Overlaps(schedule("11:00", "13:00", 3)))
	assert.False(t, base.Overlaps(schedule("12:00", "13:00", 3)))

	otherDay := schedule("09:00", "12:00", 10)
	otherDay.Date = date("2026-03-11")
	assert.False(t, base.Overlaps(otherDay))
}

func TestBuildAvailabilityWindow(t *testing.T) {
	loc := time.UTC
	s := schedule("09:00", "12:00", 3)
	morning := at("2026-03-10", "08:00")

	t.Run("bookable", func(t *testing.T) {
		w := BuildAvailabilityWindow(s, 1, true, morning, loc)
		assert.True(t, w.IsBookable)
		assert.Equal(t, 2, w.Remaining)
		assert.Nil(t, w.DisabledReason)
	})

	t.Run("past wins over full and payment", func(t *testing.T) {
		w := BuildAvailabilityWindow(s, 5, false, at("2026-03-10", "12:00"), loc)
		require.NotNil(t, w.DisabledReason)
		assert.Equal(t, DisabledPast, *w.DisabledReason)
		assert.Equal(t, 0, w.Remaining)
	})

	t.Run("full wins over payment", func(t *testing.T) {
		w := BuildAvailabilityWindow(s, 3, false, morning, loc)
		require.NotNil(t, w.DisabledReason)
		assert.Equal(t, DisabledFull, *w.DisabledReason)
		assert.False(t, w.IsBookable)
	})

	t.Run("payment not configured", func(t *testing.T) {
		w := BuildAvailabilityWindow(s, 0, false, morning, loc)
		require.NotNil(t, w.DisabledReason)
		assert.Equal(t, DisabledPaymentNotConfigured, *w.DisabledReason)
	})
}

func TestReminderTime(t *testing.T) {
	now := at("2026-03-10", "08:00")

	assert.Equal(t, at("2026-03-11", "10:00"), ReminderTime(at("2026-03-12", "10:00"), now))
	assert.Equal(t, at("2026-03-10", "17:00"), ReminderTime(at("2026-03-10", "18:00"), now))
	assert.Equal(t, now, ReminderTime(at("2026-03-10", "08:30"), now))
}
