package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "09:30", want: 570},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "hour 24", input: "24:00", wantErr: true},
		{name: "minute 60", input: "10:60", wantErr: true},
		{name: "single digit hour", input: "9:00", wantErr: true},
		{name: "seconds", input: "09:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeToMinutes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
				assert.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{name: "identical", aStart: 600, aEnd: 660, bStart: 600, bEnd: 660, want: true},
		{name: "partial", aStart: 600, aEnd: 660, bStart: 630, bEnd: 690, want: true},
		{name: "contained", aStart: 600, aEnd: 720, bStart: 630, bEnd: 640, want: true},
		{name: "touching end", aStart: 600, aEnd: 660, bStart: 660, bEnd: 720, want: false},
		{name: "touching start", aStart: 660, aEnd: 720, bStart: 600, bEnd: 660, want: false},
		{name: "disjoint", aStart: 600, aEnd: 630, bStart: 700, bEnd: 720, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// симметричность
			assert.Equal(t, tt.want, TimesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestRangesOverlap_TouchingDoesNotOverlap(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.False(t, RangesOverlap(base, base.Add(30*time.Minute), base.Add(30*time.Minute), base.Add(time.Hour)))
	assert.True(t, RangesOverlap(base, base.Add(31*time.Minute), base.Add(30*time.Minute), base.Add(time.Hour)))
}

func TestCountDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, CountDaysInclusive("2025-02-10", "2025-02-10"))
	assert.Equal(t, 3, CountDaysInclusive("2025-02-10", "2025-02-12"))
	assert.Equal(t, 0, CountDaysInclusive("2025-02-12", "2025-02-10"))
	assert.Equal(t, 0, CountDaysInclusive("not-a-date", "2025-02-10"))
	assert.Equal(t, 0, CountDaysInclusive("2025-02-10", ""))
	assert.Equal(t, 29, CountDaysInclusive("2024-02-01", "2024-02-29"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "09:05", FormatMinutes(545))
	assert.Equal(t, "23:59", FormatMinutes(1439))
}

func TestAtMinutes(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC) // 11 марта 01:00 в UTC+3

	got := AtMinutes(date, 9*60+30, loc)

	assert.Equal(t, time.Date(2025, 3, 11, 9, 30, 0, 0, loc), got)
	assert.Equal(t, 570, MinutesOfDay(got, loc))
}

func TestCalendarDate_KeepsDayInWesternZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	stored := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), CalendarDate(stored, loc))
	assert.Equal(t, 9, DateOnly(stored, loc).Day())
}
