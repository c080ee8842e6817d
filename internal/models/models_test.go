package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{5 * time.Second, "0:00:05"},
		{1500 * time.Millisecond, "0:00:01"},
		{90 * time.Minute, "1:30:00"},
		{25 * time.Hour, "1 day, 1:00:00"},
		{50 * time.Hour, "2 days, 2:00:00"},
		{-15 * time.Minute, "-1 day, 23:45:00"},
		{-49 * time.Hour, "-3 days, 23:00:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.in), "FormatDuration(%v)", c.in)
	}
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, TaskStatusInProgress, NormalizeStatus("进行中"))
	assert.Equal(t, TaskStatusCompleted, NormalizeStatus("已完成"))
	assert.Equal(t, TaskStatusTimedOut, NormalizeStatus("已超时"))
	assert.Equal(t, TaskStatusCompleted, NormalizeStatus("completed"))
	assert.Equal(t, TaskStatus("paused"), NormalizeStatus("paused"))
}

func TestTaskJSONFieldNames(t *testing.T) {
	start := time.Date(2024, 5, 14, 9, 0, 0, 0, time.Local)
	task := Task{
		ID:              "abc",
		Description:     "Write",
		StartTime:       start,
		InitialDeadline: start.Add(time.Hour),
		CurrentDeadline: start.Add(time.Hour),
		Adjustments:     []Adjustment{},
		Status:          TaskStatusInProgress,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"id", "task", "start_time", "initial_deadline", "current_deadline", "adjustments",
		"completion_time", "summary", "status", "total_adjustments", "total_adjusted_time",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2024-05-14 09:00:00", raw["start_time"])
	assert.Equal(t, "", raw["completion_time"])
	assert.Equal(t, "in_progress", raw["status"])
}

func TestTaskUnmarshalRejectsBadTimestamp(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"x","task":"t","start_time":"yesterday"}`), &task)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "start_time"))
}

func TestCloneIsDeep(t *testing.T) {
	done := time.Now()
	task := Task{Adjustments: []Adjustment{{Reason: "a"}}, CompletionTime: &done}
	c := task.Clone()
	c.Adjustments[0].Reason = "b"
	*c.CompletionTime = done.Add(time.Hour)

	assert.Equal(t, "a", task.Adjustments[0].Reason)
	assert.True(t, task.CompletionTime.Equal(done))
}

func TestStampTruncatesToSeconds(t *testing.T) {
	in := time.Date(2024, 5, 14, 9, 0, 0, 987654321, time.UTC)
	got := Stamp(in)
	assert.Equal(t, 0, got.Nanosecond())
	assert.Equal(t, time.Local, got.Location())
	assert.True(t, got.Equal(in.Truncate(time.Second)))
}
