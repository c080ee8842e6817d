// Package logging opens the tempus log file and builds the shared logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Open returns a logger writing to path, and also to console when non-nil.
// The returned file must be closed by the caller.
func Open(path string, console io.Writer) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(f, console)
	}
	return log.New(w, "", log.LstdFlags), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
