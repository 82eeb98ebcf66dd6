package utils

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for stay dates (check-in/check-out).
const DateFormat = "2006-01-02"

// Today returns the current date truncated to midnight UTC. All stay-date
// arithmetic happens in UTC day units.
func Today() time.Time {
	return TruncateToDay(time.Now().UTC())
}

// TruncateToDay drops the time-of-day component.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// DaysBetween returns the whole-day distance from a to b (negative when b
// precedes a).
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDay(b).Sub(TruncateToDay(a)).Hours() / 24)
}
