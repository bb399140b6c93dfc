package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"Compact", "20250601", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"Dashed", "2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"LeapDay", "20240229", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"InvalidLength", "202506", time.Time{}, true},
		{"NotACalendarDate", "20250231", time.Time{}, true},
		{"Garbage", "notadate", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCompact_RoundTrip(t *testing.T) {
	// Sample the full supported range rather than iterating every day.
	samples := []string{
		"19000101", "19121224", "19450508", "19700101",
		"19991231", "20000229", "20250601", "20991231", "21001231",
	}

	for _, s := range samples {
		parsed, err := ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatCompact(parsed))
	}
}

func TestDateRange(t *testing.T) {
	t.Run("TodayOnly", func(t *testing.T) {
		dates := DateRange(0, 1)
		require.Len(t, dates, 1)
		assert.Equal(t, FormatCompact(time.Now().UTC()), dates[0])
	})

	t.Run("NextThirtyDays", func(t *testing.T) {
		dates := DateRange(1, 31)
		require.Len(t, dates, 30)
		assert.Equal(t, FormatCompact(time.Now().UTC().AddDate(0, 0, 1)), dates[0])
		assert.Equal(t, FormatCompact(time.Now().UTC().AddDate(0, 0, 30)), dates[29])
	})

	t.Run("SevenDayWindowIncludesToday", func(t *testing.T) {
		dates := DateRange(0, 7)
		require.Len(t, dates, 7)
		assert.Equal(t, FormatCompact(time.Now().UTC()), dates[0])
	})
}
