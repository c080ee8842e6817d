package focus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/models"
)

// ErrBadDeadline is returned when deadline input matches no accepted form.
var ErrBadDeadline = errors.New("deadline must be a duration (25m), a time of day (HH:MM) or a timestamp (YYYY-MM-DD HH:MM:SS)")

// ParseDeadline accepts a duration from now ("25m", "1h30m"), a time of day
// ("16:30", rolled to tomorrow when already passed) or a full timestamp,
// which must be after now.
func ParseDeadline(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrBadDeadline
	}

	if d, err := time.ParseDuration(input); err == nil {
		if d <= 0 {
			return time.Time{}, fmt.Errorf("%w: duration must be positive", ErrBadDeadline)
		}
		return now.Add(d), nil
	}
	if clock, err := countdown.ParseClock(input); err == nil {
		return countdown.NextOccurrence(clock, now), nil
	}
	if t, err := models.ParseTime(input); err == nil {
		if !t.After(now) {
			return time.Time{}, fmt.Errorf("%w: %s is not in the future", ErrBadDeadline, input)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: got %q", ErrBadDeadline, input)
}
