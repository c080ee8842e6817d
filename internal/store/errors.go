package store

import "errors"

// Sentinel errors for task store operations.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("task not found")
	ErrAmbiguous   = errors.New("task id prefix is ambiguous")
	ErrState       = errors.New("task is no longer in progress")
	ErrPersistence = errors.New("persistence failed")
)
