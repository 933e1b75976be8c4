// Package clock owns the timestamp format shared with the persistence store.
// All timestamps are stored as local-time "YYYY-MM-DD HH:MM:SS" strings, and
// every date-window comparison (yesterday, streak days) is computed against
// that format.
package clock

import (
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
)

// Layout is the stored timestamp format.
const Layout = "2006-01-02 15:04:05"

// DateLayout is the calendar-date portion of Layout.
const DateLayout = "2006-01-02"

// Format renders t in the stored timestamp format, local time.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

// Parse decodes a stored timestamp string. A string that fails to parse
// surfaces as a MALFORMED_TIMESTAMP error.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.NewMalformedTimestampError(s, err)
	}
	return t, nil
}

// DayWindow returns the [00:00:00, 23:59:59] window of t's calendar day,
// rendered in the stored format.
func DayWindow(t time.Time) (start, end string) {
	t = t.Local()
	y, m, d := t.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	last := time.Date(y, m, d, 23, 59, 59, 0, time.Local)
	return Format(first), Format(last)
}

// DaysAgo returns t shifted back by n calendar days.
func DaysAgo(t time.Time, n int) time.Time {
	return t.Local().AddDate(0, 0, -n)
}

// DateOf renders t's calendar date.
func DateOf(t time.Time) string {
	return t.Local().Format(DateLayout)
}
