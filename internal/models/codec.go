package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format: local time, seconds, no zone.
const TimeLayout = "2006-01-02 15:04:05"

// Stamp normalizes t to local time truncated to whole seconds, which is the
// precision the persisted format can carry.
func Stamp(t time.Time) time.Time {
	return t.In(time.Local).Truncate(time.Second)
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp as local time.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

type taskJSON struct {
	ID                string           `json:"id"`
	Task              string           `json:"task"`
	StartTime         string           `json:"start_time"`
	InitialDeadline   string           `json:"initial_deadline"`
	CurrentDeadline   string           `json:"current_deadline"`
	Adjustments       []adjustmentJSON `json:"adjustments"`
	CompletionTime    string           `json:"completion_time"`
	Summary           string           `json:"summary"`
	Status            string           `json:"status"`
	TotalAdjustments  int              `json:"total_adjustments"`
	TotalAdjustedTime float64          `json:"total_adjusted_time"`
}

type adjustmentJSON struct {
	Time             string `json:"time"`
	Reason           string `json:"reason"`
	OriginalDeadline string `json:"original_deadline"`
	NewDeadline      string `json:"new_deadline"`
	AdjustmentCount  int    `json:"adjustment_count"`
}

// MarshalJSON encodes the task in the persisted record format.
func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:                t.ID,
		Task:              t.Description,
		StartTime:         FormatTime(t.StartTime),
		InitialDeadline:   FormatTime(t.InitialDeadline),
		CurrentDeadline:   FormatTime(t.CurrentDeadline),
		Adjustments:       make([]adjustmentJSON, 0, len(t.Adjustments)),
		Summary:           t.Summary,
		Status:            string(t.Status),
		TotalAdjustments:  t.TotalAdjustments,
		TotalAdjustedTime: t.TotalAdjustedTime,
	}
	if t.CompletionTime != nil {
		out.CompletionTime = FormatTime(*t.CompletionTime)
	}
	for _, a := range t.Adjustments {
		out.Adjustments = append(out.Adjustments, adjustmentJSON{
			Time:             FormatTime(a.Time),
			Reason:           a.Reason,
			OriginalDeadline: FormatTime(a.OriginalDeadline),
			NewDeadline:      FormatTime(a.NewDeadline),
			AdjustmentCount:  a.Sequence,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a persisted record.
func (t *Task) UnmarshalJSON(data []byte) error {
	var in taskJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var (
		decoded Task
		err     error
	)
	decoded.ID = in.ID
	decoded.Description = in.Task
	decoded.Summary = in.Summary
	decoded.Status = NormalizeStatus(in.Status)
	decoded.TotalAdjustments = in.TotalAdjustments
	decoded.TotalAdjustedTime = in.TotalAdjustedTime

	if decoded.StartTime, err = ParseTime(in.StartTime); err != nil {
		return fmt.Errorf("task %s start_time: %w", in.ID, err)
	}
	if decoded.InitialDeadline, err = ParseTime(in.InitialDeadline); err != nil {
		return fmt.Errorf("task %s initial_deadline: %w", in.ID, err)
	}
	if decoded.CurrentDeadline, err = ParseTime(in.CurrentDeadline); err != nil {
		return fmt.Errorf("task %s current_deadline: %w", in.ID, err)
	}
	if in.CompletionTime != "" {
		ct, err := ParseTime(in.CompletionTime)
		if err != nil {
			return fmt.Errorf("task %s completion_time: %w", in.ID, err)
		}
		decoded.CompletionTime = &ct
	}

	decoded.Adjustments = make([]Adjustment, 0, len(in.Adjustments))
	for _, a := range in.Adjustments {
		adj := Adjustment{Reason: a.Reason, Sequence: a.AdjustmentCount}
		if adj.Time, err = ParseTime(a.Time); err != nil {
			return fmt.Errorf("task %s adjustment %d: %w", in.ID, a.AdjustmentCount, err)
		}
		if adj.OriginalDeadline, err = ParseTime(a.OriginalDeadline); err != nil {
			return fmt.Errorf("task %s adjustment %d: %w", in.ID, a.AdjustmentCount, err)
		}
		if adj.NewDeadline, err = ParseTime(a.NewDeadline); err != nil {
			return fmt.Errorf("task %s adjustment %d: %w", in.ID, a.AdjustmentCount, err)
		}
		decoded.Adjustments = append(decoded.Adjustments, adj)
	}

	*t = decoded
	return nil
}
