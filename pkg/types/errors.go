package types

import "errors"

// Domain errors for type validation
var (
	// Task errors
	ErrEmptyTaskName   = errors.New("task name cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")

	// Search result errors
	ErrInvalidTaskID = errors.New("invalid task ID")
	ErrInvalidRank   = errors.New("rank must be >= 1")
	ErrMissingTask   = errors.New("task is required")
)
