package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/store"
)

// commandResult is what a typed command produced.
type commandResult struct {
	message string
	isError bool
	quit    bool
	view    string
}

func okResult(format string, args ...interface{}) commandResult {
	return commandResult{message: "✓ " + fmt.Sprintf(format, args...)}
}

func errResult(err error) commandResult {
	return commandResult{message: "Error: " + friendly(err), isError: true}
}

func usage(text string) commandResult {
	return commandResult{message: "Usage: " + text, isError: true}
}

// execute runs one command line against the session service.
func execute(svc *focus.Service, input string) commandResult {
	input = strings.TrimPrefix(strings.TrimSpace(input), "/")
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return commandResult{}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new", "add":
		if len(args) < 2 {
			return usage("new <25m|HH:MM> <description>")
		}
		deadline, err := svc.Deadline(args[0])
		if err != nil {
			return errResult(err)
		}
		task, err := svc.NewTask(strings.Join(args[1:], " "), deadline)
		if err != nil {
			return errResult(err)
		}
		return okResult("Started %q until %s", task.Description, models.FormatTime(task.CurrentDeadline))

	case "adjust":
		if len(args) < 2 {
			return usage("adjust <25m|HH:MM> <reason>")
		}
		deadline, err := svc.Deadline(args[0])
		if err != nil {
			return errResult(err)
		}
		task, err := svc.Adjust(deadline, strings.Join(args[1:], " "))
		if err != nil {
			return errResult(err)
		}
		return okResult("Deadline moved to %s (adjustment #%d)", models.FormatTime(task.CurrentDeadline), task.TotalAdjustments)

	case "done", "complete":
		task, err := svc.Complete(strings.Join(args, " "))
		if err != nil {
			return errResult(err)
		}
		return okResult("Completed %q", task.Description)

	case "timeout":
		task, err := svc.MarkTimedOut()
		if err != nil {
			return errResult(err)
		}
		return okResult("Marked %q as timed out", task.Description)

	case "remind":
		if len(args) != 1 {
			return usage("remind <minutes>")
		}
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("remind <minutes>")
		}
		rem, err := svc.Remind(minutes)
		if err != nil {
			return errResult(err)
		}
		return okResult("Reminder in %d min (%s)", rem.Minutes, rem.TriggerAt.Format("15:04:05"))

	case "history":
		return commandResult{view: viewHistory}

	case "q", "quit", "exit":
		return commandResult{quit: true}

	default:
		return commandResult{
			message: fmt.Sprintf("Unknown: %s (try: new, adjust, done, timeout, remind, history)", cmd),
			isError: true,
		}
	}
}

func friendly(err error) string {
	switch {
	case errors.Is(err, countdown.ErrBusy):
		return "finish the current task first"
	case errors.Is(err, focus.ErrNoActiveTask):
		return "no task is running"
	case errors.Is(err, store.ErrValidation):
		return strings.TrimPrefix(err.Error(), store.ErrValidation.Error()+": ")
	default:
		return err.Error()
	}
}
