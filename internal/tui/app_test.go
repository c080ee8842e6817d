package tui

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *focus.Service) {
	t.Helper()
	logger := log.New(&bytes.Buffer{}, "", 0)
	b, err := store.NewFileBackend(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, err)
	st := store.New(b, store.Options{Logger: logger})
	svc := focus.NewService(st, countdown.NewController(), countdown.NewReminders(), logger)
	return New(svc, nil, logger), svc
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeLine(a *App, line string) {
	a.input.SetValue(line)
	a.Update(keyMsg("enter"))
}

func TestAppNewTaskAndCountdown(t *testing.T) {
	a, svc := newTestApp(t)
	a.Init()
	assert.Contains(t, a.View(), "No task in progress")

	typeLine(a, "new 25m Write the report")
	assert.False(t, a.isError, a.message)

	task, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "Write the report", task.Description)

	a.Update(tickMsg(task.CurrentDeadline.Add(-90 * time.Second)))
	assert.Equal(t, countdown.Running, a.display.State)
	assert.Contains(t, a.View(), "0:01:30")
	assert.Contains(t, a.View(), "RUNNING")
}

func TestAppExpiryPromptTimedOut(t *testing.T) {
	a, svc := newTestApp(t)
	typeLine(a, "new 1m Quick one")
	task, _ := svc.Current()

	a.Update(tickMsg(task.CurrentDeadline.Add(time.Second)))
	require.NotNil(t, a.expired)
	assert.Contains(t, a.View(), "Time's up!")

	// Later ticks keep the prompt without raising another event.
	a.Update(tickMsg(task.CurrentDeadline.Add(2 * time.Second)))
	assert.Equal(t, countdown.Expired, a.display.State)

	a.Update(keyMsg("t"))
	assert.Nil(t, a.expired)
	assert.Equal(t, countdown.Idle, a.display.State)
	assert.Contains(t, a.message, "timed out")

	got, err := svc.Store().Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTimedOut, got.Status)
}

func TestAppExpiryPromptAdjust(t *testing.T) {
	a, svc := newTestApp(t)
	typeLine(a, "new 1m Quick one")
	task, _ := svc.Current()
	a.Update(tickMsg(task.CurrentDeadline.Add(time.Second)))

	a.Update(keyMsg("a"))
	assert.Equal(t, "adjust ", a.input.Value())

	typeLine(a, "adjust 30m need more time")
	assert.False(t, a.isError, a.message)
	assert.Nil(t, a.expired)
	assert.Equal(t, countdown.Running, a.display.State)

	got, _ := svc.Store().Get(task.ID)
	assert.Equal(t, 1, got.TotalAdjustments)
	assert.Equal(t, "need more time", got.Adjustments[0].Reason)
}

func TestAppRefusesSecondTask(t *testing.T) {
	a, svc := newTestApp(t)
	typeLine(a, "new 25m First")
	typeLine(a, "new 25m Second")

	assert.True(t, a.isError)
	assert.Contains(t, a.message, "finish the current task first")
	assert.Equal(t, 1, svc.Store().Len())
}

func TestAppReminderFires(t *testing.T) {
	a, svc := newTestApp(t)
	typeLine(a, "remind 1")
	require.Len(t, svc.Reminders(), 1)
	assert.Contains(t, a.View(), "Next reminder")

	rem := svc.Reminders()[0]
	a.Update(tickMsg(rem.TriggerAt))
	assert.Contains(t, a.message, "1-minute reminder")
	assert.Empty(t, svc.Reminders())
}

func TestAppHistoryView(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	typeLine(a, "new 25m Archived task")
	typeLine(a, "done shipped")

	a.Update(keyMsg("tab"))
	assert.Equal(t, viewHistory, a.mode)
	assert.Contains(t, a.View(), "Archived task")

	a.Update(keyMsg("enter"))
	assert.True(t, a.history.InDetail())
	assert.Contains(t, a.View(), "shipped")

	a.Update(keyMsg("esc"))
	assert.False(t, a.history.InDetail())
	a.Update(keyMsg("esc"))
	assert.Equal(t, viewTimer, a.mode)
}

func TestAppQuit(t *testing.T) {
	a, _ := newTestApp(t)
	a.input.SetValue("quit")
	_, cmd := a.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestExecuteUsage(t *testing.T) {
	_, svc := newTestApp(t)

	for _, line := range []string{"new", "new 25m", "adjust 10m", "remind", "remind soon"} {
		res := execute(svc, line)
		assert.True(t, res.isError, line)
		assert.True(t, strings.HasPrefix(res.message, "Usage:"), "%s: %s", line, res.message)
	}

	res := execute(svc, "done")
	assert.Contains(t, res.message, "no task is running")

	res = execute(svc, "new later Something")
	assert.Contains(t, res.message, "deadline must be")

	res = execute(svc, "bogus")
	assert.Contains(t, res.message, "Unknown: bogus")

	res = execute(svc, "/history")
	assert.Equal(t, viewHistory, res.view)
}

func TestSuggestions(t *testing.T) {
	s := NewSuggestions()

	s.Update("new")
	assert.False(t, s.IsVisible())

	s.Update("/")
	assert.True(t, s.IsVisible())
	assert.Len(t, s.filtered, len(commandSuggestions))

	s.Update("/re")
	require.True(t, s.IsVisible())
	assert.Equal(t, "remind", s.Selected().Text)

	s.Update("/d")
	assert.Equal(t, "done", s.Selected().Text)
	s.Next()
	assert.Equal(t, "done", s.Selected().Text)

	s.Update("/new ")
	assert.False(t, s.IsVisible())
}
