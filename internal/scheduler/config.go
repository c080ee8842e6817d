// Package scheduler drives the countdown controller and reminders from a
// periodic tick.
package scheduler

import "time"

// Config defines the scheduler configuration.
type Config struct {
	// TickInterval is how often the countdown and reminders are polled.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		TickInterval: time.Second,
	}
}

// interval returns the configured tick interval, falling back to one second.
func (c *Config) interval() time.Duration {
	if c == nil || c.TickInterval <= 0 {
		return time.Second
	}
	return c.TickInterval
}
