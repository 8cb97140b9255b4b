// Package storage provides SQLite-based persistence for task data.
//
// The storage layer manages:
//   - Projects
//   - Tasks (name, description, status, priority, due date)
//   - Task comments
//   - The candidate pre-filter query backing fuzzy search
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (unique name, description)
//   - tasks: Tasks with a unique name, optional description and project
//   - comments: Notes attached to tasks (cascade-deleted with the task)
//   - schema_version: Applied migration versions
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.tasktrack/tasktrack.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	task := &types.Task{
//	    Name:     "Monthly Report",
//	    Status:   types.StatusTodo,
//	    Priority: types.PriorityHigh,
//	}
//	if err := db.CreateTask(ctx, task); err != nil {
//	    return err
//	}
//
// # Candidate Pre-Filter
//
// SearchCandidates is the cheap narrowing pass in front of fuzzy scoring. It
// selects tasks whose name contains a short query fragment, or whose
// description contains a slightly longer one, projecting only the fields
// scoring reads:
//
//	candidates, err := db.SearchCandidates(ctx, "re", "repo", 300)
//
// The match is case-insensitive substring containment (instr over lower()),
// so an index-friendly scan, not a ranked search. False positives are
// expected and eliminated by ranking; the row order is storage order, never
// the final rank.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Native SQLite performance
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
//
// # Errors
//
// Lookups return ErrNotFound for missing rows; creates return
// ErrAlreadyExists on unique-name collisions. Both wrap with context via
// fmt.Errorf, so check with errors.Is.
package storage
