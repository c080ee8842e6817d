package main

import (
	"fmt"

	"github.com/fentz26/tempus/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if _, _, err := svc.Resume(); err != nil {
		return err
	}

	app := tui.New(svc, cfg.Scheduler(), logger)
	if n := cfg.Notifier(); n != nil {
		app.SetNotifier(n)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
