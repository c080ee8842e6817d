// Package localexec delivers notifications by running a local command from
// an allowlist.
package localexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fentz26/tempus/internal/notify"
)

// allowedPrograms is the strict allowlist of notification programs.
var allowedPrograms = map[string]bool{
	"notify-send":       true,
	"terminal-notifier": true,
	"osascript":         true,
	"wall":              true,
	"echo":              true,
}

// Placeholders substituted in command arguments.
const (
	TitlePlaceholder = "{title}"
	BodyPlaceholder  = "{body}"
)

// LocalExec implements notify.Notifier by running a command such as
// ["notify-send", "{title}", "{body}"].
type LocalExec struct {
	command []string
}

// New creates a new LocalExec notifier.
func New(command []string) *LocalExec {
	return &LocalExec{command: command}
}

// Name returns the notifier identifier.
func (l *LocalExec) Name() string {
	return "localexec"
}

// IsAllowed checks if the program is in the allowlist.
func IsAllowed(command []string) bool {
	if len(command) == 0 {
		return false
	}
	return allowedPrograms[filepath.Base(command[0])]
}

// Notify runs the configured command with the placeholders filled in.
func (l *LocalExec) Notify(ctx context.Context, title, body string) (*notify.Result, error) {
	if !IsAllowed(l.command) {
		return nil, fmt.Errorf("notify command not allowed: %s", strings.Join(l.command, " "))
	}

	program := l.command[0]
	args := make([]string, 0, len(l.command)-1)
	for _, a := range l.command[1:] {
		a = strings.ReplaceAll(a, TitlePlaceholder, title)
		a = strings.ReplaceAll(a, BodyPlaceholder, body)
		args = append(args, a)
	}

	execCmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()

	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			return nil, fmt.Errorf("exec error: %w", err)
		}
	}

	return &notify.Result{
		Command:  program,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
