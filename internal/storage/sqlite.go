package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tasktrack/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either SQLite driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

// Project operations

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *types.Project) error {
	query := `
		INSERT INTO projects (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, project.Name, project.Description, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project %q: %w", project.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM projects
		WHERE id = ?
	`
	var project types.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Name, &project.Description,
		&project.CreatedAt, &project.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]*types.Project, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM projects
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		var project types.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description,
			&project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	return projects, rows.Err()
}

func (s *SQLiteStorage) DeleteProject(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Task operations

func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task) error {
	if task.Status == "" {
		task.Status = types.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (name, description, status, priority, project_id, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		task.Name, nullString(task.Description), task.Status, task.Priority,
		task.ProjectID, nullTime(task.DueDate), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %q: %w", task.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

const taskColumns = `id, name, COALESCE(description, ''), status, priority, project_id, due_date, created_at, updated_at`

// scanTask scans a task row in taskColumns order
func scanTask(scanner interface{ Scan(...interface{}) error }) (*types.Task, error) {
	var task types.Task
	var projectID sql.NullInt64
	var dueDate sql.NullTime
	err := scanner.Scan(&task.ID, &task.Name, &task.Description, &task.Status,
		&task.Priority, &projectID, &dueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if projectID.Valid {
		task.ProjectID = &projectID.Int64
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	return &task, nil
}

func (s *SQLiteStorage) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetTasksByIDs loads every task in ids that still exists. IDs without a
// matching row are simply absent from the returned map.
func (s *SQLiteStorage) GetTasksByIDs(ctx context.Context, ids []int64) (map[int64]*types.Task, error) {
	tasks := make(map[int64]*types.Task, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks[task.ID] = task
	}
	return tasks, rows.Err()
}

func (s *SQLiteStorage) UpdateTask(ctx context.Context, task *types.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET name = ?, description = ?, status = ?, priority = ?, project_id = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		task.Name, nullString(task.Description), task.Status, task.Priority,
		task.ProjectID, nullTime(task.DueDate), now, task.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %q: %w", task.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	task.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) ListTasks(ctx context.Context, filter TaskFilter) ([]*types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	var conditions []string
	var args []interface{}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// SearchCandidates narrows the task set with a cheap case-insensitive
// substring match: nameFrag against name OR descFrag against description.
// Results are projected to the fields scoring needs and returned in rowid
// order, capped at limit. This is deliberately permissive; precision comes
// from the fuzzy ranking pass.
func (s *SQLiteStorage) SearchCandidates(ctx context.Context, nameFrag, descFrag string, limit int) ([]Candidate, error) {
	query := `
		SELECT id, name, COALESCE(description, '')
		FROM tasks
		WHERE instr(lower(name), ?) > 0 OR instr(lower(description), ?) > 0
		ORDER BY id
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query,
		strings.ToLower(nameFrag), strings.ToLower(descFrag), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// Comment operations

func (s *SQLiteStorage) AddComment(ctx context.Context, comment *types.Comment) error {
	query := `
		INSERT INTO comments (task_id, body, created_at)
		VALUES (?, ?, ?)
	`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, comment.TaskID, comment.Body, now)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) ListCommentsByTask(ctx context.Context, taskID int64) ([]*types.Comment, error) {
	query := `
		SELECT id, task_id, body, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*types.Comment
	for rows.Next() {
		var c types.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// Helpers

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
