package scheduler

import (
	"bytes"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/models"
)

// recordingHandler captures everything the scheduler dispatches.
type recordingHandler struct {
	mu        sync.Mutex
	ticks     []countdown.Display
	timeouts  []countdown.TimeoutEvent
	reminders []models.Reminder
}

func (h *recordingHandler) OnTick(d countdown.Display) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ticks = append(h.ticks, d)
}

func (h *recordingHandler) OnTimeout(ev countdown.TimeoutEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timeouts = append(h.timeouts, ev)
}

func (h *recordingHandler) OnReminder(r models.Reminder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reminders = append(h.reminders, r)
}

func (h *recordingHandler) counts() (int, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ticks), len(h.timeouts), len(h.reminders)
}

func newTestScheduler(cfg *Config) (*Scheduler, *countdown.Controller, *countdown.Reminders, *recordingHandler) {
	ctrl := countdown.NewController()
	rems := countdown.NewReminders()
	h := &recordingHandler{}
	sch := New(ctrl, rems, h, cfg, log.New(&bytes.Buffer{}, "", 0))
	return sch, ctrl, rems, h
}

func TestTickTimeoutFiresOnce(t *testing.T) {
	sch, ctrl, _, h := newTestScheduler(nil)
	start := time.Date(2024, 5, 14, 9, 0, 0, 0, time.Local)

	task := models.Task{ID: "t1", Description: "Focus", CurrentDeadline: start.Add(2 * time.Second)}
	if err := ctrl.Start(task); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		sch.Tick(start.Add(time.Duration(i) * time.Second))
	}

	ticks, timeouts, _ := h.counts()
	if ticks != 3 {
		t.Errorf("Expected 3 ticks, got %d", ticks)
	}
	if timeouts != 1 {
		t.Fatalf("Expected exactly 1 timeout, got %d", timeouts)
	}
	if h.timeouts[0].TaskID != "t1" {
		t.Errorf("Unexpected timeout event: %+v", h.timeouts[0])
	}
	if h.ticks[0].State != countdown.Running || h.ticks[0].Remaining != time.Second {
		t.Errorf("Unexpected first tick: %+v", h.ticks[0])
	}
	if h.ticks[2].State != countdown.Expired {
		t.Errorf("Expected expired on last tick, got %s", h.ticks[2].State)
	}
}

func TestTickReminderFiresOnce(t *testing.T) {
	sch, _, rems, h := newTestScheduler(nil)
	start := time.Date(2024, 5, 14, 9, 0, 0, 0, time.Local)

	rem, err := rems.Schedule(start, 1)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	sch.Tick(start.Add(59 * time.Second))
	sch.Tick(start.Add(60 * time.Second))
	sch.Tick(start.Add(61 * time.Second))

	_, _, reminders := h.counts()
	if reminders != 1 {
		t.Fatalf("Expected 1 reminder, got %d", reminders)
	}
	if h.reminders[0].ID != rem.ID {
		t.Errorf("Unexpected reminder: %+v", h.reminders[0])
	}
	if rems.Len() != 0 {
		t.Errorf("Expected no pending reminders, got %d", rems.Len())
	}
}

func TestSchedulerLoop(t *testing.T) {
	sch, ctrl, rems, h := newTestScheduler(&Config{TickInterval: 10 * time.Millisecond})

	// Already-due work so the first few ticks have something to dispatch.
	ctrl.Start(models.Task{ID: "t1", CurrentDeadline: time.Now().Add(-time.Second)})
	rems.Schedule(time.Now().Add(-time.Hour), 1)

	sch.Start()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ticks, timeouts, reminders := h.counts()
		if ticks >= 3 && timeouts == 1 && reminders == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	sch.Stop()

	ticks, timeouts, reminders := h.counts()
	if ticks < 3 {
		t.Errorf("Expected at least 3 ticks, got %d", ticks)
	}
	if timeouts != 1 || reminders != 1 {
		t.Errorf("Expected 1 timeout and 1 reminder, got %d and %d", timeouts, reminders)
	}

	select {
	case <-sch.Done():
	default:
		t.Error("Expected Done to be closed after Stop")
	}

	// No ticks after Stop.
	time.Sleep(30 * time.Millisecond)
	if after, _, _ := h.counts(); after != ticks {
		t.Errorf("Ticks continued after Stop: %d -> %d", ticks, after)
	}
}

func TestGetStats(t *testing.T) {
	sch, _, rems, _ := newTestScheduler(nil)
	rems.Schedule(time.Now(), 5)
	sch.Tick(time.Now())

	stats := sch.GetStats()
	if stats["ticks"].(int) != 1 {
		t.Errorf("Expected 1 tick, got %v", stats["ticks"])
	}
	if stats["state"].(string) != "idle" {
		t.Errorf("Expected idle, got %v", stats["state"])
	}
	if stats["pending_reminders"].(int) != 1 {
		t.Errorf("Expected 1 pending reminder, got %v", stats["pending_reminders"])
	}
	if stats["interval"].(string) != "1s" {
		t.Errorf("Expected 1s interval, got %v", stats["interval"])
	}
}
