package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI against dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--config", filepath.Join(dir, "missing.yaml"), "--data-dir", dir}
	rootCmd.SetArgs(append(base, args...))

	err := rootCmd.Execute()
	teardown()
	return out.String(), err
}

var createdID = regexp.MustCompile(`Created task: ([0-9a-f-]{36})`)

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tempus version dev")
}

func TestTaskLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "task", "add", "--desc", "Write report", "--in", "25m")
	require.NoError(t, err)
	m := createdID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]
	short := id[:8]

	_, err = run(t, dir, "task", "add", "--desc", "Second", "--in", "5m")
	assert.ErrorIs(t, err, countdown.ErrBusy)

	out, err = run(t, dir, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "in_progress")
	assert.NotContains(t, out, "Second")

	out, err = run(t, dir, "task", "adjust", short, "--reason", "scope grew", "--in", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "adjustment #1")

	out, err = run(t, dir, "task", "complete", short, "--summary", "shipped")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed "+short)

	out, err = run(t, dir, "task", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "reason: scope grew")
	assert.Contains(t, out, "Summary:           shipped")
	assert.Contains(t, out, "completed")

	out, err = run(t, dir, "task", "list", "--status", "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found")

	out, err = run(t, dir, "history", "--by-date")
	require.NoError(t, err)
	assert.Contains(t, out, "== "+time.Now().Format("2006-01-02"))

	out, err = run(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Task ID:           "+id)

	// A finished task frees the slot for a new one.
	_, err = run(t, dir, "task", "add", "--desc", "Second", "--at", "23:59")
	require.NoError(t, err)
}

func TestTaskTimeoutAndStatus(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "task", "add", "--desc", "Run late", "--deadline", time.Now().Add(time.Hour).Format("2006-01-02 15:04:05"))
	require.NoError(t, err)
	id := createdID.FindStringSubmatch(out)[1]

	out, err = run(t, dir, "task", "timeout", id)
	require.NoError(t, err)
	assert.Contains(t, out, "now timed_out")

	out, err = run(t, dir, "task", "status", id, "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "now in_progress")
}

func TestTaskErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "task", "add", "--desc", "No deadline")
	assert.Error(t, err)

	_, err = run(t, dir, "task", "add", "--desc", "Bad", "--in", "soon")
	assert.Error(t, err)

	_, err = run(t, dir, "task", "add", "--desc", "Past", "--deadline", "2020-01-01 00:00:00")
	assert.ErrorIs(t, err, focus.ErrBadDeadline)

	out, err := run(t, dir, "task", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Past")

	_, err = run(t, dir, "task", "complete", "deadbeef")
	assert.Error(t, err)

	_, err = run(t, dir, "--backend", "postgres", "task", "list")
	assert.Error(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "--backend", "sqlite", "task", "add", "--desc", "Stored in sqlite", "--in", "10m")
	require.NoError(t, err)

	out, err := run(t, dir, "--backend", "sqlite", "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored in sqlite")

	// The JSON store in the same directory is untouched.
	out, err = run(t, dir, "task", "list")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No tasks found"), out)
}
