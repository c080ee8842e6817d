package focus

import "errors"

// Sentinel errors for session operations.
var (
	ErrNoActiveTask = errors.New("no active task")
)
