package focus

import (
	"errors"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	now := time.Date(2024, 5, 14, 14, 30, 0, 0, time.Local)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"25m", now.Add(25 * time.Minute)},
		{" 1h30m ", now.Add(90 * time.Minute)},
		{"16:00", time.Date(2024, 5, 14, 16, 0, 0, 0, time.Local)},
		{"09:00", time.Date(2024, 5, 15, 9, 0, 0, 0, time.Local)},
		{"2024-05-20 18:45:00", time.Date(2024, 5, 20, 18, 45, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		got, err := ParseDeadline(tt.input, now)
		if err != nil {
			t.Errorf("ParseDeadline(%q) error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDeadline(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDeadlineRejects(t *testing.T) {
	now := time.Date(2024, 5, 14, 14, 30, 0, 0, time.Local)
	for _, input := range []string{"", "soon", "-5m", "0s", "25:99", "2020-01-01 00:00:00", "2024-05-14 14:30:00"} {
		if _, err := ParseDeadline(input, now); !errors.Is(err, ErrBadDeadline) {
			t.Errorf("ParseDeadline(%q): expected ErrBadDeadline, got %v", input, err)
		}
	}
}
