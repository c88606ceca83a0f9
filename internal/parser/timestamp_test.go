package parser

import (
	"testing"
	"time"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday afternoon.
var fixedNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)

func TestParseTimestamp(t *testing.T) {
	t.Run("empty_string_returns_now", func(t *testing.T) {
		result := ParseTimestampAt("", fixedNow)
		assert.Nil(t, result.Error)
		assert.Equal(t, fixedNow, result.Time)
	})

	t.Run("NOW_case_insensitive", func(t *testing.T) {
		result := ParseTimestampAt("  NOW ", fixedNow)
		assert.Nil(t, result.Error)
		assert.Equal(t, fixedNow, result.Time)
	})

	t.Run("wall_clock_default", func(t *testing.T) {
		result := ParseTimestamp("now")
		assert.Nil(t, result.Error)
		assert.WithinDuration(t, time.Now(), result.Time, time.Second)
	})

	t.Run("relative", func(t *testing.T) {
		result := ParseTimestampAt("2 hours ago", fixedNow)
		require.Nil(t, result.Error)
		assert.WithinDuration(t, fixedNow.Add(-2*time.Hour), result.Time, time.Minute)
	})

	t.Run("garbage", func(t *testing.T) {
		result := ParseTimestampAt("flibbertigibbet wobble", fixedNow)
		require.Error(t, result.Error)
		assert.ErrorIs(t, result.Error, errors.ErrInvalidTimestamp)
	})
}

func TestParseTimestampPeriods(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"this hour", time.Date(2024, 3, 13, 15, 0, 0, 0, time.Local)},
		{"last hour", time.Date(2024, 3, 13, 14, 0, 0, 0, time.Local)},
		{"this day", time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local)},
		{"previous day", time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"this week", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)},
		{"last week", time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)},
		{"this month", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{"last month", time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)},
		{"this quarter", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)},
		{"last quarter", time.Date(2023, 10, 1, 0, 0, 0, 0, time.Local)},
		{"This Year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)},
		{"last year", time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseTimestampAt(tt.input, fixedNow)
			require.Nil(t, result.Error)
			assert.True(t, tt.want.Equal(result.Time), "got %v", result.Time)
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), day)

	day, err = ParseDay("2024-02-29", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local), day)

	day, err = ParseDay("last day", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local), day)

	_, err = ParseDay("flibbertigibbet wobble", fixedNow)
	require.Error(t, err)
	var perr *TimeParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "date", perr.Field)
}

func TestGetPeriodRange(t *testing.T) {
	tests := []struct {
		period     string
		start, end time.Time
	}{
		{"today", time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local)},
		{"yesterday", time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local)},
		{"this week", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)},
		{"current week", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)},
		{"last week", time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)},
		{"this month", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)},
		{"last month", time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{"this year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)},
		{"last year", time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)},
		{"invalid", time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			r := GetPeriodRange(tt.period, fixedNow)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}
}

func TestTimeParseError(t *testing.T) {
	err := NewTimestampError("blah")
	assert.Equal(t, "invalid timestamp 'blah': could not parse time", err.Error())
	assert.Contains(t, err.FormatWithExamples(), "Valid examples:")
	assert.Contains(t, err.FormatWithExamples(), "2 hours ago")

	ue := err.ToUserError()
	assert.Equal(t, "timestamp", ue.Field)
	assert.ErrorIs(t, ue, errors.ErrInvalidTimestamp)

	bare := &TimeParseError{Input: "x", Field: "date", Message: "bad", Examples: DateExamples}
	assert.Equal(t, "Try: today, yesterday, 2024-03-01", bare.ToUserError().Suggestion)
}
