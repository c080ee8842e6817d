package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/notify"
	"github.com/fentz26/tempus/internal/scheduler"
	"github.com/spf13/cobra"
)

var watchRemind []int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Count down the active task in the terminal",
	Long: `Watch resumes the task that is still in progress and prints its countdown
once per tick, together with any reminders given by --remind. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntSliceVar(&watchRemind, "remind", nil, "Schedule reminders, in minutes (repeatable)")
}

// consoleHandler forwards scheduler events to the watch loop, which owns
// the terminal. Notifications are sent from the scheduler goroutine.
type consoleHandler struct {
	notifier notify.Notifier
	ticks    chan countdown.Display
	expired  chan countdown.TimeoutEvent
	fired    chan models.Reminder
}

func (h *consoleHandler) OnTick(d countdown.Display) {
	if d.State != countdown.Running {
		return
	}
	// Stale countdown lines are dropped.
	select {
	case h.ticks <- d:
	default:
	}
}

func (h *consoleHandler) OnTimeout(ev countdown.TimeoutEvent) {
	notify.Deliver(h.notifier, logger, "Time's up!", ev.Description)
	select {
	case h.expired <- ev:
	default:
	}
}

func (h *consoleHandler) OnReminder(r models.Reminder) {
	notify.Deliver(h.notifier, logger, "⏰ Reminder", reminderText(r))
	select {
	case h.fired <- r:
	default:
	}
}

func newConsoleHandler(n notify.Notifier) *consoleHandler {
	return &consoleHandler{
		notifier: n,
		ticks:    make(chan countdown.Display, 1),
		expired:  make(chan countdown.TimeoutEvent, 1),
		fired:    make(chan models.Reminder, 16),
	}
}

func reminderText(r models.Reminder) string {
	return fmt.Sprintf("Your %d-minute reminder is up!", r.Minutes)
}

func printTimeout(out io.Writer, ev countdown.TimeoutEvent) {
	fmt.Fprintf(out, "\r%s  Time's up!\n", ev.Description)
	fmt.Fprintf(out, "Resolve it with one of:\n")
	fmt.Fprintf(out, "  tempus task adjust %s --reason ... --in 10m\n", truncateID(ev.TaskID))
	fmt.Fprintf(out, "  tempus task complete %s --summary ...\n", truncateID(ev.TaskID))
	fmt.Fprintf(out, "  tempus task timeout %s\n", truncateID(ev.TaskID))
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	task, ok, err := svc.Resume()
	if err != nil {
		return err
	}
	for _, m := range watchRemind {
		if _, err := svc.Remind(m); err != nil {
			return err
		}
	}
	if !ok && len(watchRemind) == 0 {
		fmt.Fprintln(out, "No task in progress. Start one with: tempus task add --desc ... --in 25m")
		return nil
	}
	if ok {
		fmt.Fprintf(out, "Watching %s (deadline %s). Ctrl+C to stop.\n", truncateID(task.ID), models.FormatTime(task.CurrentDeadline))
	}

	h := newConsoleHandler(cfg.Notifier())
	sched := scheduler.New(svc.Controller(), svc.ReminderSet(), h, cfg.Scheduler(), logger)
	sched.Start()
	defer sched.Stop()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			logger.Printf("INFO received signal %v, stopping watch", sig)
			fmt.Fprintln(out)
			return nil
		case d := <-h.ticks:
			fmt.Fprintf(out, "\r%s  %s ", d.Description, d.Text())
		case ev := <-h.expired:
			printTimeout(out, ev)
			if svc.ReminderSet().Len() == 0 {
				return nil
			}
		case r := <-h.fired:
			fmt.Fprintf(out, "\n⏰ %s (%s)\n", reminderText(r), r.TriggerAt.Format("15:04:05"))
			if _, running := svc.Current(); !running && svc.ReminderSet().Len() == 0 {
				return nil
			}
		}
	}
}
