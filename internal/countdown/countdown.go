// Package countdown turns wall-clock time into countdown display state and
// expiry events for the active task, and tracks one-shot reminders.
package countdown

import (
	"errors"
	"sync"
	"time"

	"github.com/fentz26/tempus/internal/models"
)

// ErrBusy is returned when a task is started while another one is active.
var ErrBusy = errors.New("a task is already active")

// State is the controller state for the active task.
type State int

const (
	Idle State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Display is what a front end shows for one tick.
type Display struct {
	State       State
	TaskID      string
	Description string
	Deadline    time.Time
	// Remaining is whole seconds until the deadline; zero unless Running.
	Remaining time.Duration
}

// Text renders the countdown the way the front ends show it.
func (d Display) Text() string {
	switch d.State {
	case Running:
		return FormatRemaining(d.Remaining)
	case Expired:
		return "Time's up!"
	default:
		return ""
	}
}

// TimeoutEvent is raised once when the active task's deadline passes.
type TimeoutEvent struct {
	TaskID      string
	Description string
	Deadline    time.Time
	At          time.Time
}

// Evaluate computes the display state for task at now. It performs no I/O
// and keeps no state.
func Evaluate(task *models.Task, now time.Time) Display {
	if task == nil {
		return Display{State: Idle}
	}
	d := Display{
		TaskID:      task.ID,
		Description: task.Description,
		Deadline:    task.CurrentDeadline,
	}
	remaining := task.CurrentDeadline.Sub(now)
	if remaining > 0 {
		d.State = Running
		d.Remaining = remaining.Truncate(time.Second)
		return d
	}
	d.State = Expired
	return d
}

// Controller tracks the single active task. It is safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	task  *models.Task
	state State
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{state: Idle}
}

// Start begins counting down task. Only an idle controller accepts a task.
func (c *Controller) Start(task models.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return ErrBusy
	}
	t := task.Clone()
	c.task = &t
	c.state = Running
	return nil
}

// Resume replaces the active task after its deadline was adjusted and
// re-enters Running. It is a no-op when idle or when task is a different task.
func (c *Controller) Resume(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.task == nil || c.task.ID != task.ID {
		return
	}
	t := task.Clone()
	c.task = &t
	c.state = Running
}

// Clear returns the controller to Idle.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.task = nil
	c.state = Idle
}

// Poll evaluates the active task at now. The timeout event is returned only
// on the tick that moves the controller from Running to Expired; later
// polls keep reporting Expired without an event until the expiry is resolved.
func (c *Controller) Poll(now time.Time) (Display, *TimeoutEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Idle:
		return Display{State: Idle}, nil
	case Expired:
		d := Evaluate(c.task, now)
		d.State = Expired
		d.Remaining = 0
		return d, nil
	}

	d := Evaluate(c.task, now)
	if d.State != Expired {
		return d, nil
	}
	c.state = Expired
	return d, &TimeoutEvent{
		TaskID:      c.task.ID,
		Description: c.task.Description,
		Deadline:    c.task.CurrentDeadline,
		At:          now,
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Task returns a copy of the active task, if any.
func (c *Controller) Task() (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return models.Task{}, false
	}
	return c.task.Clone(), true
}
