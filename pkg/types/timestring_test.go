package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:45")

	got, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	_, err = TimeString("23:40").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("9:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("18:30").IsAfter("18:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan("17:00"))
	assert.Equal(t, TimeString("17:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 6, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("06:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("11:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "11:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_OnDate(t *testing.T) {
	loc := time.UTC
	date := time.Date(2025, 5, 20, 0, 0, 0, 0, loc)

	got, err := TimeString("14:30").OnDate(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 20, 14, 30, 0, 0, loc), got)
}
