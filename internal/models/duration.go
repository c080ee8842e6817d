package models

import (
	"fmt"
	"time"
)

// FormatDuration renders d as H:MM:SS, prefixed with a day count when the
// magnitude reaches a full day. Negative durations borrow from the day
// count, so -15m renders as "-1 day, 23:45:00". Sub-second parts are dropped.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	rem := secs % 86400
	if rem < 0 {
		days--
		rem += 86400
	}
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, rem%3600/60, rem%60)
	switch {
	case days == 0:
		return clock
	case days == 1 || days == -1:
		return fmt.Sprintf("%d day, %s", days, clock)
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}
