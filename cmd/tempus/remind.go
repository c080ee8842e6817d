package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fentz26/tempus/internal/scheduler"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind [minutes]",
	Short: "Wait for a one-shot reminder",
	Long:  `Remind schedules a reminder and blocks until it fires (1 to 1440 minutes).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemind,
}

func runRemind(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("minutes must be a number: %w", err)
	}
	rem, err := svc.Remind(minutes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reminder set for %s (in %d min)\n", rem.TriggerAt.Format("15:04:05"), rem.Minutes)

	h := newConsoleHandler(cfg.Notifier())
	sched := scheduler.New(svc.Controller(), svc.ReminderSet(), h, cfg.Scheduler(), logger)
	sched.Start()
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case r := <-h.fired:
		fmt.Fprintf(out, "⏰ %s (%s)\n", reminderText(r), r.TriggerAt.Format("15:04:05"))
		return nil
	case sig := <-sigCh:
		logger.Printf("INFO received signal %v, reminder %s dropped", sig, rem.ID)
		return nil
	}
}
