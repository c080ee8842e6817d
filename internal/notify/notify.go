// Package notify defines how tempus tells the user about timeouts and
// reminders outside the terminal.
package notify

import (
	"context"
	"log"
	"time"
)

// Timeout bounds a single notification command.
const Timeout = 5 * time.Second

// Result holds the outcome of one notification command.
type Result struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Notifier delivers a notification.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Notify shows title and body to the user.
	Notify(ctx context.Context, title, body string) (*Result, error)
}

// Deliver sends a notification and logs the outcome. A nil notifier is a
// no-op.
func Deliver(n Notifier, logger *log.Logger, title, body string) {
	if n == nil {
		return
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	res, err := n.Notify(ctx, title, body)
	if err != nil {
		logger.Printf("ERROR notify via %s: %v", n.Name(), err)
		return
	}
	if res.ExitCode != 0 {
		logger.Printf("WARN notify via %s exited %d: %s", n.Name(), res.ExitCode, res.Stderr)
	}
}
