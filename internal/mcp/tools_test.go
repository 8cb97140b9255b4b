package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRequest builds a tool invocation with the given arguments
func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultJSON decodes the text payload of a tool result
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

// mustCreateTask creates a task through the tool handler and returns its ID
func mustCreateTask(t *testing.T, srv *Server, args map[string]interface{}) int64 {
	t.Helper()

	result, err := srv.handleCreateTask(context.Background(), callRequest("create_task", args))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	task, ok := payload["task"].(map[string]interface{})
	require.True(t, ok)
	return int64(task["id"].(float64))
}

// requireMCPError asserts err is an MCPError carrying the given code
func requireMCPError(t *testing.T, err error, code int) *MCPError {
	t.Helper()

	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr), "expected MCPError, got %v", err)
	assert.Equal(t, code, mcpErr.Code)
	return mcpErr
}

// cacheVersion reads the current search cache version
func cacheVersion(t *testing.T, srv *Server) int64 {
	t.Helper()

	v, err := srv.cache.Version()
	require.NoError(t, err)
	return v
}

func TestHandleCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("creates task with defaults", func(t *testing.T) {
		srv := newTestServer(t)

		result, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name": "Write quarterly report",
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, true, payload["created"])

		task := payload["task"].(map[string]interface{})
		assert.Equal(t, "Write quarterly report", task["name"])
		assert.Equal(t, "todo", task["status"])
		assert.Equal(t, "medium", task["priority"])
	})

	t.Run("bumps search version after create", func(t *testing.T) {
		srv := newTestServer(t)

		before := cacheVersion(t, srv)
		mustCreateTask(t, srv, map[string]interface{}{"name": "Bump me"})
		assert.Equal(t, before+1, cacheVersion(t, srv))
	})

	t.Run("rejects missing name", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name":   "Bad status",
			"status": "archived",
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		srv := newTestServer(t)

		mustCreateTask(t, srv, map[string]interface{}{"name": "Unique task"})

		_, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name": "Unique task",
		}))
		requireMCPError(t, err, ErrorCodeDuplicateName)
	})

	t.Run("rejects unknown project", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name":       "Orphan",
			"project_id": float64(999),
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})

	t.Run("parses due date", func(t *testing.T) {
		srv := newTestServer(t)

		result, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name":     "Due soon",
			"due_date": "2026-09-15",
		}))
		require.NoError(t, err)

		task := resultJSON(t, result)["task"].(map[string]interface{})
		assert.Equal(t, "2026-09-15", task["due_date"])
	})

	t.Run("rejects malformed due date", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
			"name":     "Bad date",
			"due_date": "15/09/2026",
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})
}

func TestHandleGetTask(t *testing.T) {
	ctx := context.Background()

	t.Run("returns task with comments", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Inspect me"})

		_, err := srv.handleAddComment(ctx, callRequest("add_comment", map[string]interface{}{
			"task_id": float64(id),
			"body":    "first note",
		}))
		require.NoError(t, err)

		result, err := srv.handleGetTask(ctx, callRequest("get_task", map[string]interface{}{
			"id": float64(id),
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		task := payload["task"].(map[string]interface{})
		assert.Equal(t, "Inspect me", task["name"])

		comments := payload["comments"].([]interface{})
		require.Len(t, comments, 1)
		assert.Equal(t, "first note", comments[0].(map[string]interface{})["body"])
	})

	t.Run("not found", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleGetTask(ctx, callRequest("get_task", map[string]interface{}{
			"id": float64(12345),
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleGetTask(ctx, callRequest("get_task", map[string]interface{}{}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})
}

func TestHandleUpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{
			"name":        "Original name",
			"description": "keep me",
			"priority":    "high",
		})

		result, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":     float64(id),
			"status": "progress",
		}))
		require.NoError(t, err)

		task := resultJSON(t, result)["task"].(map[string]interface{})
		assert.Equal(t, "Original name", task["name"])
		assert.Equal(t, "keep me", task["description"])
		assert.Equal(t, "high", task["priority"])
		assert.Equal(t, "progress", task["status"])
	})

	t.Run("bumps search version after update", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Versioned"})

		before := cacheVersion(t, srv)
		_, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":     float64(id),
			"status": "done",
		}))
		require.NoError(t, err)
		assert.Equal(t, before+1, cacheVersion(t, srv))
	})

	t.Run("project_id zero detaches task", func(t *testing.T) {
		srv := newTestServer(t)

		projResult, err := srv.handleCreateProject(ctx, callRequest("create_project", map[string]interface{}{
			"name": "Q3 work",
		}))
		require.NoError(t, err)
		proj := resultJSON(t, projResult)["project"].(map[string]interface{})
		projID := proj["id"].(float64)

		id := mustCreateTask(t, srv, map[string]interface{}{
			"name":       "Attached",
			"project_id": projID,
		})

		result, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":         float64(id),
			"project_id": float64(0),
		}))
		require.NoError(t, err)

		task := resultJSON(t, result)["task"].(map[string]interface{})
		_, hasProject := task["project_id"]
		assert.False(t, hasProject, "project_id should be cleared")
	})

	t.Run("empty due_date clears due date", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{
			"name":     "Dated",
			"due_date": "2026-09-15",
		})

		result, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":       float64(id),
			"due_date": "",
		}))
		require.NoError(t, err)

		task := resultJSON(t, result)["task"].(map[string]interface{})
		_, hasDue := task["due_date"]
		assert.False(t, hasDue, "due_date should be cleared")
	})

	t.Run("not found", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":   float64(999),
			"name": "ghost",
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})

	t.Run("rejects rename to existing name", func(t *testing.T) {
		srv := newTestServer(t)
		mustCreateTask(t, srv, map[string]interface{}{"name": "Taken"})
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Renamable"})

		_, err := srv.handleUpdateTask(ctx, callRequest("update_task", map[string]interface{}{
			"id":   float64(id),
			"name": "Taken",
		}))
		requireMCPError(t, err, ErrorCodeDuplicateName)
	})
}

func TestHandleDeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and bumps search version", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Doomed"})

		before := cacheVersion(t, srv)
		result, err := srv.handleDeleteTask(ctx, callRequest("delete_task", map[string]interface{}{
			"id": float64(id),
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, true, payload["deleted"])
		assert.Equal(t, before+1, cacheVersion(t, srv))

		_, err = srv.handleGetTask(ctx, callRequest("get_task", map[string]interface{}{
			"id": float64(id),
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})

	t.Run("not found leaves version untouched", func(t *testing.T) {
		srv := newTestServer(t)

		before := cacheVersion(t, srv)
		_, err := srv.handleDeleteTask(ctx, callRequest("delete_task", map[string]interface{}{
			"id": float64(404),
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
		assert.Equal(t, before, cacheVersion(t, srv))
	})
}

func TestHandleListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by status", func(t *testing.T) {
		srv := newTestServer(t)
		mustCreateTask(t, srv, map[string]interface{}{"name": "Todo one"})
		mustCreateTask(t, srv, map[string]interface{}{"name": "Done one", "status": "done"})

		result, err := srv.handleListTasks(ctx, callRequest("list_tasks", map[string]interface{}{
			"status": "done",
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, float64(1), payload["count"])
		tasks := payload["tasks"].([]interface{})
		require.Len(t, tasks, 1)
		assert.Equal(t, "Done one", tasks[0].(map[string]interface{})["name"])
	})

	t.Run("no arguments lists everything", func(t *testing.T) {
		srv := newTestServer(t)
		mustCreateTask(t, srv, map[string]interface{}{"name": "A"})
		mustCreateTask(t, srv, map[string]interface{}{"name": "B"})

		result, err := srv.handleListTasks(ctx, callRequest("list_tasks", nil))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, float64(2), payload["count"])
	})

	t.Run("rejects invalid status filter", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleListTasks(ctx, callRequest("list_tasks", map[string]interface{}{
			"status": "archived",
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})
}

func TestHandleSearchTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("finds tasks with typo in query", func(t *testing.T) {
		srv := newTestServer(t)
		mustCreateTask(t, srv, map[string]interface{}{"name": "Write quarterly report"})
		mustCreateTask(t, srv, map[string]interface{}{"name": "Water the plants"})

		result, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "quarterly reprot",
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		results := payload["results"].([]interface{})
		require.NotEmpty(t, results)

		top := results[0].(map[string]interface{})
		assert.Equal(t, float64(1), top["rank"])
		assert.Equal(t, "Write quarterly report", top["task"].(map[string]interface{})["name"])
		assert.Equal(t, false, payload["cache_hit"])
	})

	t.Run("repeated query hits cache until mutation", func(t *testing.T) {
		srv := newTestServer(t)
		mustCreateTask(t, srv, map[string]interface{}{"name": "Deploy staging"})

		first, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "deploy",
		}))
		require.NoError(t, err)
		assert.Equal(t, false, resultJSON(t, first)["cache_hit"])

		second, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "deploy",
		}))
		require.NoError(t, err)
		assert.Equal(t, true, resultJSON(t, second)["cache_hit"])

		// A mutation bumps the version; the same query misses and picks up
		// the new task.
		mustCreateTask(t, srv, map[string]interface{}{"name": "Deploy production"})

		third, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "deploy",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, third)
		assert.Equal(t, false, payload["cache_hit"])
		assert.Len(t, payload["results"].([]interface{}), 2)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "   ",
		}))
		requireMCPError(t, err, ErrorCodeEmptyQuery)
	})

	t.Run("rejects out of range limit", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleSearchTasks(ctx, callRequest("search_tasks", map[string]interface{}{
			"query": "anything",
			"limit": float64(10000),
		}))
		requireMCPError(t, err, ErrorCodeInvalidParams)
	})
}

func TestProjectHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("create list delete round trip", func(t *testing.T) {
		srv := newTestServer(t)

		created, err := srv.handleCreateProject(ctx, callRequest("create_project", map[string]interface{}{
			"name":        "Infra",
			"description": "infrastructure work",
		}))
		require.NoError(t, err)
		proj := resultJSON(t, created)["project"].(map[string]interface{})
		projID := proj["id"].(float64)

		listed, err := srv.handleListProjects(ctx, callRequest("list_projects", map[string]interface{}{}))
		require.NoError(t, err)
		assert.Equal(t, float64(1), resultJSON(t, listed)["count"])

		deleted, err := srv.handleDeleteProject(ctx, callRequest("delete_project", map[string]interface{}{
			"id": projID,
		}))
		require.NoError(t, err)
		assert.Equal(t, true, resultJSON(t, deleted)["deleted"])

		listed, err = srv.handleListProjects(ctx, callRequest("list_projects", map[string]interface{}{}))
		require.NoError(t, err)
		assert.Equal(t, float64(0), resultJSON(t, listed)["count"])
	})

	t.Run("duplicate project name", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleCreateProject(ctx, callRequest("create_project", map[string]interface{}{
			"name": "Infra",
		}))
		require.NoError(t, err)

		_, err = srv.handleCreateProject(ctx, callRequest("create_project", map[string]interface{}{
			"name": "Infra",
		}))
		requireMCPError(t, err, ErrorCodeDuplicateName)
	})

	t.Run("delete missing project", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleDeleteProject(ctx, callRequest("delete_project", map[string]interface{}{
			"id": float64(404),
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})
}

func TestCommentHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("add and list comments", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Discussed"})

		for _, body := range []string{"first", "second"} {
			_, err := srv.handleAddComment(ctx, callRequest("add_comment", map[string]interface{}{
				"task_id": float64(id),
				"body":    body,
			}))
			require.NoError(t, err)
		}

		result, err := srv.handleListComments(ctx, callRequest("list_comments", map[string]interface{}{
			"task_id": float64(id),
		}))
		require.NoError(t, err)

		payload := resultJSON(t, result)
		assert.Equal(t, float64(2), payload["count"])
		comments := payload["comments"].([]interface{})
		assert.Equal(t, "first", comments[0].(map[string]interface{})["body"])
		assert.Equal(t, "second", comments[1].(map[string]interface{})["body"])
	})

	t.Run("comment on missing task", func(t *testing.T) {
		srv := newTestServer(t)

		_, err := srv.handleAddComment(ctx, callRequest("add_comment", map[string]interface{}{
			"task_id": float64(404),
			"body":    "lost",
		}))
		requireMCPError(t, err, ErrorCodeNotFound)
	})

	t.Run("comments do not bump search version", func(t *testing.T) {
		srv := newTestServer(t)
		id := mustCreateTask(t, srv, map[string]interface{}{"name": "Quiet"})

		before := cacheVersion(t, srv)
		_, err := srv.handleAddComment(ctx, callRequest("add_comment", map[string]interface{}{
			"task_id": float64(id),
			"body":    "not searchable",
		}))
		require.NoError(t, err)
		assert.Equal(t, before, cacheVersion(t, srv))
	})
}
