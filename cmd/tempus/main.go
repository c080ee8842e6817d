package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fentz26/tempus/internal/config"
	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/fentz26/tempus/internal/logging"
	"github.com/fentz26/tempus/internal/store"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tempus",
	Short: "Tempus - focus timer",
	Long: `Tempus runs one focus task at a time against a deadline. When the deadline
passes you adjust it, complete the task, or mark it timed out. Every task and
every deadline change is kept in a local history.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath  string
	dataDirFlag string
	backendFlag string
)

// Session state opened by setup for the running command.
var (
	cfg     *config.Config
	logger  *log.Logger
	logFile *os.File
	st      *store.Store
	svc     *focus.Service
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Override the storage backend (json, sqlite)")

	// Add subcommands
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// skipSetup lists commands that never touch the task data.
var skipSetup = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

func setup(cmd *cobra.Command, args []string) error {
	if skipSetup[cmd.Name()] {
		return nil
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The TUI owns the terminal, so it only ever logs to file.
	var console io.Writer
	if cfg.LogToConsole && cmd.Name() != "tui" {
		console = os.Stderr
	}
	logger, logFile, err = logging.Open(cfg.LogPath(), console)
	if err != nil {
		return err
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Printf("ERROR open %s backend: %v", cfg.Backend, err)
		return err
	}
	st = store.New(backend, store.Options{Logger: logger, Strict: cfg.Strict})
	svc = focus.NewService(st, countdown.NewController(), countdown.NewReminders(), logger)
	return nil
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return store.NewSQLiteBackend(cfg.TasksPath())
	default:
		return store.NewFileBackend(cfg.TasksPath())
	}
}

func teardown() {
	if st != nil {
		if err := st.Close(); err != nil && logger != nil {
			logger.Printf("ERROR close store: %v", err)
		}
		st = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		teardown()
		fmt.Fprintln(os.Stderr, describeErr(err))
		os.Exit(1)
	}
}
