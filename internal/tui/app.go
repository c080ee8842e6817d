// Package tui provides the interactive terminal UI for tempus.
package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/notify"
	"github.com/fentz26/tempus/internal/scheduler"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#6366F1")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")
	cyanColor      = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	countdownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyanColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 3)

	expiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(0, 3)
)

const (
	viewTimer   = "timer"
	viewHistory = "history"
)

// App is the main TUI application model. It is also the scheduler's
// handler: ticks run inside Update, so handler callbacks touch the model
// on the event loop.
type App struct {
	svc      *focus.Service
	sched    *scheduler.Scheduler
	interval time.Duration
	logger   *log.Logger
	notifier notify.Notifier
	now      func() time.Time

	input       textinput.Model
	suggestions *Suggestions
	history     *HistoryModel
	width       int
	height      int
	mode        string

	display countdown.Display
	expired *countdown.TimeoutEvent
	message string
	isError bool
}

// New creates a new TUI application.
func New(svc *focus.Service, cfg *scheduler.Config, logger *log.Logger) *App {
	if cfg == nil {
		cfg = scheduler.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "new 25m <description> | adjust 16:30 <reason> | done | remind 15 | /"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	a := &App{
		svc:         svc,
		interval:    cfg.TickInterval,
		logger:      logger,
		now:         time.Now,
		input:       ti,
		suggestions: NewSuggestions(),
		history:     NewHistoryModel(svc.Store()),
		mode:        viewTimer,
	}
	if a.interval <= 0 {
		a.interval = time.Second
	}
	a.sched = scheduler.New(svc.Controller(), svc.ReminderSet(), a, cfg, logger)
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// SetNotifier sets the notifier used for timeouts and reminders.
func (a *App) SetNotifier(n notify.Notifier) {
	a.notifier = n
}

// deliver runs the notifier off the event loop.
func (a *App) deliver(title, body string) {
	if a.notifier == nil {
		return
	}
	go notify.Deliver(a.notifier, a.logger, title, body)
}

// --- scheduler.Handler ---

// OnTick records the countdown for the next render.
func (a *App) OnTick(d countdown.Display) {
	a.display = d
}

// OnTimeout opens the three-way prompt.
func (a *App) OnTimeout(ev countdown.TimeoutEvent) {
	a.expired = &ev
	a.setMessage(fmt.Sprintf("Time's up for %q. a: adjust | c: complete | t: mark timed out", ev.Description), true)
	a.deliver("Time's up!", ev.Description)
}

// OnReminder shows the reminder notice.
func (a *App) OnReminder(r models.Reminder) {
	msg := fmt.Sprintf("Your %d-minute reminder is up!", r.Minutes)
	a.setMessage("⏰ "+msg, false)
	a.deliver("⏰ Reminder", msg)
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.refresh()
	return tea.Batch(textinput.Blink, a.tickCmd())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		a.sched.Tick(time.Time(msg))
		return a, a.tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		a.history.SetSize(msg.Width, msg.Height-4)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mode == viewHistory {
			return a, a.updateHistory(msg)
		}
		if cmd, handled := a.handleTimerKey(msg); handled {
			return a, cmd
		}
	}

	if a.mode == viewHistory {
		return a, a.history.Update(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.suggestions.Update(a.input.Value())
	return a, cmd
}

func (a *App) updateHistory(msg tea.KeyMsg) tea.Cmd {
	if a.history.Filtering() {
		return a.history.Update(msg)
	}
	switch msg.String() {
	case "esc", "q":
		if !a.history.Back() {
			a.mode = viewTimer
			a.input.Focus()
		}
		return nil
	}
	return a.history.Update(msg)
}

// handleTimerKey processes keys on the timer screen. It reports whether the
// key was consumed.
func (a *App) handleTimerKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	empty := a.input.Value() == ""

	// Three-way expiry prompt shortcuts.
	if a.expired != nil && empty {
		switch msg.String() {
		case "a":
			a.input.SetValue("adjust ")
			a.input.CursorEnd()
			return nil, true
		case "c":
			a.input.SetValue("done ")
			a.input.CursorEnd()
			return nil, true
		case "t":
			return a.run("timeout"), true
		}
	}

	switch msg.String() {
	case "esc":
		a.input.SetValue("")
		a.suggestions.Update("")
		a.message = ""
		return nil, true

	case "up":
		if a.suggestions.IsVisible() {
			a.suggestions.Prev()
			return nil, true
		}
	case "down":
		if a.suggestions.IsVisible() {
			a.suggestions.Next()
			return nil, true
		}

	case "tab":
		if a.suggestions.IsVisible() {
			if selected := a.suggestions.Selected(); selected != nil {
				a.input.SetValue(selected.Text + " ")
				a.input.CursorEnd()
				a.suggestions.Update("")
			}
			return nil, true
		}
		if empty {
			a.openHistory()
			return nil, true
		}

	case "enter":
		if a.suggestions.IsVisible() {
			if selected := a.suggestions.Selected(); selected != nil {
				a.input.SetValue(selected.Text + " ")
				a.input.CursorEnd()
				a.suggestions.Update("")
			}
			return nil, true
		}
		line := strings.TrimSpace(a.input.Value())
		a.input.SetValue("")
		if line == "" {
			return nil, true
		}
		return a.run(line), true
	}
	return nil, false
}

// run executes a command line and applies its result to the model.
func (a *App) run(line string) tea.Cmd {
	res := execute(a.svc, line)
	if res.quit {
		return tea.Quit
	}
	if res.view == viewHistory {
		a.openHistory()
		return nil
	}
	if res.isError {
		a.logger.Printf("WARN command %q: %s", line, res.message)
	}
	a.setMessage(res.message, res.isError)
	a.refresh()
	return nil
}

func (a *App) openHistory() {
	a.history.Refresh()
	a.mode = viewHistory
	a.input.Blur()
}

func (a *App) setMessage(msg string, isError bool) {
	a.message = msg
	a.isError = isError
}

// refresh re-reads the controller after a command so the screen does not
// wait for the next tick.
func (a *App) refresh() {
	ctrl := a.svc.Controller()
	if ctrl.State() != countdown.Expired {
		a.expired = nil
	}
	task, ok := ctrl.Task()
	if !ok {
		a.display = countdown.Display{State: countdown.Idle}
		return
	}
	a.display = countdown.Evaluate(&task, a.now())
	if ctrl.State() == countdown.Expired {
		a.display.State = countdown.Expired
		a.display.Remaining = 0
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("⏳ TEMPUS") + "  " + a.stateBadge()
	if n := a.svc.ReminderSet().Len(); n > 0 {
		header += "  " + lipgloss.NewStyle().Foreground(warningColor).Render(fmt.Sprintf("[%d reminders]", n))
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	if a.mode == viewHistory {
		b.WriteString(a.history.View())
		b.WriteString("\n")
		b.WriteString(statusBarStyle.Width(a.width).Render(" ↑↓:nav | /:filter | Enter:open | Esc:back | Ctrl+C:quit"))
		return b.String()
	}

	b.WriteString(a.renderTimer())

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if a.isError {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))
	if a.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(a.suggestions.Render(a.width))
	}
	b.WriteString("\n")

	status := " Enter:run | /:commands | Tab:history | Esc:clear | Ctrl+C:quit"
	if a.expired != nil {
		status = " a:adjust | c:complete | t:timed out | Ctrl+C:quit"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) stateBadge() string {
	switch a.display.State {
	case countdown.Running:
		return lipgloss.NewStyle().Foreground(successColor).Bold(true).Render("● RUNNING")
	case countdown.Expired:
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true).Render("● EXPIRED")
	default:
		return lipgloss.NewStyle().Foreground(mutedColor).Render("○ IDLE")
	}
}

func (a *App) renderTimer() string {
	var b strings.Builder
	d := a.display

	switch d.State {
	case countdown.Idle:
		b.WriteString("\n  🎯 No task in progress.\n")
		b.WriteString("  " + helpStyle.Render("Type: new 25m <description> to start one.") + "\n")
	default:
		b.WriteString(fmt.Sprintf("\n  🎯 %s\n\n", lipgloss.NewStyle().Bold(true).Render(d.Description)))
		if d.State == countdown.Expired {
			b.WriteString(indent(expiredStyle.Render(d.Text())))
		} else {
			b.WriteString(indent(countdownStyle.Render(d.Text())))
		}
		b.WriteString("\n  " + helpStyle.Render("Deadline "+models.FormatTime(d.Deadline)) + "\n")
	}

	if pending := a.svc.Reminders(); len(pending) > 0 {
		next := pending[0]
		b.WriteString("\n  " + helpStyle.Render(fmt.Sprintf("Next reminder at %s (%d min)", next.TriggerAt.Format("15:04:05"), next.Minutes)) + "\n")
	}
	return b.String()
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

type tickMsg time.Time

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
