package types

import "time"

// Task status values
const (
	StatusTodo       = "todo"
	StatusInProgress = "progress"
	StatusDone       = "done"
)

// Task priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a tracked work item
type Task struct {
	ID          int64
	Name        string // Unique across all tasks
	Description string // Optional, may be empty
	Status      string
	Priority    string
	ProjectID   *int64 // Nullable - task may not belong to a project
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Project groups related tasks
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is a note attached to a task
type Comment struct {
	ID        int64
	TaskID    int64
	Body      string
	CreatedAt time.Time
}

// ValidStatus reports whether s is a recognized task status
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a recognized task priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Validate checks required task fields and enum values
func (t *Task) Validate() error {
	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if t.Status != "" && !ValidStatus(t.Status) {
		return ErrInvalidStatus
	}

	if t.Priority != "" && !ValidPriority(t.Priority) {
		return ErrInvalidPriority
	}

	return nil
}
