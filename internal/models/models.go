// Package models defines the core domain types for tempus.
package models

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusTimedOut   TaskStatus = "timed_out"
)

// legacyStatuses maps status strings written by older data files.
var legacyStatuses = map[string]TaskStatus{
	"进行中": TaskStatusInProgress,
	"已完成": TaskStatusCompleted,
	"已超时": TaskStatusTimedOut,
}

// NormalizeStatus maps legacy status strings onto the current values.
// Anything else is returned unchanged.
func NormalizeStatus(s string) TaskStatus {
	if st, ok := legacyStatuses[s]; ok {
		return st
	}
	return TaskStatus(s)
}

// Task is a single tracked unit of work with a deadline and the history of
// changes made to that deadline.
type Task struct {
	ID                string
	Description       string
	StartTime         time.Time
	InitialDeadline   time.Time
	CurrentDeadline   time.Time
	Adjustments       []Adjustment
	CompletionTime    *time.Time
	Summary           string
	Status            TaskStatus
	TotalAdjustments  int
	TotalAdjustedTime float64 // signed seconds
}

// Adjustment is a logged change to a task's current deadline.
type Adjustment struct {
	Time             time.Time
	Reason           string
	OriginalDeadline time.Time
	NewDeadline      time.Time
	Sequence         int // 1-based
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Adjustments != nil {
		c.Adjustments = make([]Adjustment, len(t.Adjustments))
		copy(c.Adjustments, t.Adjustments)
	}
	if t.CompletionTime != nil {
		ct := *t.CompletionTime
		c.CompletionTime = &ct
	}
	return c
}

// Reminder is a one-shot, time-triggered notification unrelated to any task.
type Reminder struct {
	ID        string
	Minutes   int
	TriggerAt time.Time
	CreatedAt time.Time
}
