package countdown

import (
	"fmt"
	"time"

	"github.com/fentz26/tempus/internal/models"
)

// FormatRemaining renders a countdown as "H:MM:SS", with a day prefix once
// it exceeds 24 hours.
func FormatRemaining(d time.Duration) string {
	return models.FormatDuration(d.Truncate(time.Second))
}

// NextOccurrence returns the next moment after now whose local time of day
// matches clock's hour and minute. A time not after now rolls to tomorrow.
func NextOccurrence(clock time.Time, now time.Time) time.Time {
	now = now.In(time.Local)
	t := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ParseClock parses an "HH:MM" time of day.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time of day %q (want HH:MM): %w", s, err)
	}
	return t, nil
}
