package utils

import (
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a date string cannot be parsed.
// Callers treat it as a validation failure, not a storage error.
var ErrInvalidDate = fmt.Errorf("invalid date")

// ParseDate parses a calendar date in either YYYYMMDD (provider format) or
// YYYY-MM-DD form. The result is normalized to UTC midnight so that dates
// compare and index cleanly regardless of server timezone.
func ParseDate(s string) (time.Time, error) {
	var layout string
	switch len(s) {
	case 8:
		layout = "20060102"
	case 10:
		layout = "2006-01-02"
	default:
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYYMMDD or YYYY-MM-DD", ErrInvalidDate, s)
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatCompact renders a date as YYYYMMDD, the format the provider API and
// the dates endpoint speak.
func FormatCompact(t time.Time) string {
	return t.Format("20060102")
}

// DateRange returns the dates from startOffset (inclusive) to endOffset
// (exclusive) days from today, formatted as YYYYMMDD.
func DateRange(startOffset, endOffset int) []string {
	dates := make([]string, 0, endOffset-startOffset)
	today := time.Now().UTC()

	for i := startOffset; i < endOffset; i++ {
		dates = append(dates, FormatCompact(today.AddDate(0, 0, i)))
	}
	return dates
}
