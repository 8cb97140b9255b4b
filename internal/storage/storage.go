package storage

import (
	"context"

	"tasktrack/pkg/types"
)

// Storage defines the interface for persisting and querying task data
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *types.Project) error
	GetProject(ctx context.Context, id int64) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	// Task operations
	CreateTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, id int64) (*types.Task, error)
	GetTasksByIDs(ctx context.Context, ids []int64) (map[int64]*types.Task, error)
	UpdateTask(ctx context.Context, task *types.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]*types.Task, error)

	// Search operations
	SearchCandidates(ctx context.Context, nameFrag, descFrag string, limit int) ([]Candidate, error)

	// Comment operations
	AddComment(ctx context.Context, comment *types.Comment) error
	ListCommentsByTask(ctx context.Context, taskID int64) ([]*types.Comment, error)

	// Database operations
	Close() error
}

// TaskFilter narrows ListTasks results. Zero-value fields are ignored.
type TaskFilter struct {
	Status    string
	Priority  string
	ProjectID *int64
}

// Candidate is the projection of a task used by search scoring.
// Only the fields needed for similarity matching are loaded.
type Candidate struct {
	ID          int64
	Name        string
	Description string
}
