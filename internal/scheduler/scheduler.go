package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/models"
)

// Handler receives the results of each tick.
type Handler interface {
	OnTick(d countdown.Display)
	OnTimeout(ev countdown.TimeoutEvent)
	OnReminder(r models.Reminder)
}

// Scheduler polls the controller and the reminder set.
type Scheduler struct {
	ctrl      *countdown.Controller
	reminders *countdown.Reminders
	handler   Handler
	config    *Config
	logger    *log.Logger
	now       func() time.Time

	mu    sync.Mutex
	ticks int

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler.
func New(ctrl *countdown.Controller, reminders *countdown.Reminders, h Handler, cfg *Config, logger *log.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ctrl:      ctrl,
		reminders: reminders,
		handler:   h,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the poll loop in its own goroutine.
func (sch *Scheduler) Start() {
	sch.wg.Add(1)
	go sch.loop()
	sch.logger.Printf("INFO scheduler started (interval %s)", sch.config.interval())
}

// Stop stops the poll loop and waits for it to exit.
func (sch *Scheduler) Stop() {
	sch.cancel()
	sch.wg.Wait()
	sch.logger.Println("INFO scheduler stopped")
}

// Done is closed once Stop has been called.
func (sch *Scheduler) Done() <-chan struct{} {
	return sch.ctx.Done()
}

func (sch *Scheduler) loop() {
	defer sch.wg.Done()

	ticker := time.NewTicker(sch.config.interval())
	defer ticker.Stop()

	for {
		select {
		case <-sch.ctx.Done():
			return
		case <-ticker.C:
			sch.Tick(sch.now())
		}
	}
}

// Tick performs one poll at now: the countdown first, then reminders.
// Front ends with their own event loop call Tick directly instead of Start.
func (sch *Scheduler) Tick(now time.Time) {
	sch.mu.Lock()
	sch.ticks++
	sch.mu.Unlock()

	d, ev := sch.ctrl.Poll(now)
	sch.handler.OnTick(d)
	if ev != nil {
		sch.logger.Printf("INFO task %s timed out at %s", ev.TaskID, models.FormatTime(ev.At))
		sch.handler.OnTimeout(*ev)
	}

	for _, r := range sch.reminders.Due(now) {
		sch.logger.Printf("INFO reminder %s fired (%d min)", r.ID, r.Minutes)
		sch.handler.OnReminder(r)
	}
}

// GetStats returns current scheduler statistics.
func (sch *Scheduler) GetStats() map[string]interface{} {
	sch.mu.Lock()
	ticks := sch.ticks
	sch.mu.Unlock()

	return map[string]interface{}{
		"ticks":             ticks,
		"state":             sch.ctrl.State().String(),
		"pending_reminders": sch.reminders.Len(),
		"interval":          sch.config.interval().String(),
	}
}
