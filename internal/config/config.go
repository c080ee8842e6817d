// Package config loads the tempus configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/tempus/internal/notify"
	"github.com/fentz26/tempus/internal/notify/localexec"
	"github.com/fentz26/tempus/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds tempus configuration.
type Config struct {
	// DataDir holds the task data and the log file.
	DataDir string `yaml:"data_dir"`
	// Backend selects the persistence medium: json or sqlite.
	Backend string `yaml:"backend"`
	// Strict rejects changes to tasks that are no longer in progress.
	Strict bool `yaml:"strict"`
	// TickInterval is how often the countdown and reminders are polled.
	TickInterval time.Duration `yaml:"tick_interval"`
	// LogToConsole mirrors log lines to stderr (ignored by the TUI).
	LogToConsole bool `yaml:"log_to_console"`
	// NotifyCommand runs on timeouts and reminders, e.g.
	// ["notify-send", "{title}", "{body}"]. Empty disables it.
	NotifyCommand []string `yaml:"notify_command,omitempty"`
}

// DefaultDir returns ~/.tempus, or .tempus when there is no home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tempus"
	}
	return filepath.Join(home, ".tempus")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      DefaultDir(),
		Backend:      BackendJSON,
		TickInterval: time.Second,
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration from ~/.tempus/config.yaml.
func LoadFromHome() (*Config, error) {
	return Load(DefaultPath())
}

// Save writes configuration to a YAML file, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q, must be: json or sqlite", c.Backend)
	}
	if c.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("tick_interval must be at least 100ms, got %s", c.TickInterval)
	}
	if len(c.NotifyCommand) > 0 && !localexec.IsAllowed(c.NotifyCommand) {
		return fmt.Errorf("notify_command %q is not an allowed program", c.NotifyCommand[0])
	}
	return nil
}

// TasksPath returns the data file for the configured backend.
func (c *Config) TasksPath() string {
	if c.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, "tasks.db")
	}
	return filepath.Join(c.DataDir, "tasks.json")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "tempus.log")
}

// Notifier returns the configured notifier, or nil when none is set.
func (c *Config) Notifier() notify.Notifier {
	if len(c.NotifyCommand) == 0 {
		return nil
	}
	return localexec.New(c.NotifyCommand)
}

// Scheduler returns the scheduler settings.
func (c *Config) Scheduler() *scheduler.Config {
	return &scheduler.Config{TickInterval: c.TickInterval}
}
