package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tasktrack/internal/searcher"
	"tasktrack/internal/storage"
	"tasktrack/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound      = -32001 // Referenced task or project does not exist
	ErrorCodeDuplicateName = -32002 // Task or project name already in use
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
)

// Date layout accepted for due_date parameters
const dueDateLayout = "2006-01-02"

// handleCreateTask handles the create_task tool invocation
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	task := &types.Task{
		Name:        strings.TrimSpace(name),
		Description: getStringDefault(args, "description", ""),
		Status:      getStringDefault(args, "status", types.StatusTodo),
		Priority:    getStringDefault(args, "priority", types.PriorityMedium),
	}

	if err := task.Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid task", map[string]interface{}{
			"reason": err.Error(),
		})
	}

	if projectID := getInt64Default(args, "project_id", 0); projectID > 0 {
		if _, err := s.storage.GetProject(ctx, projectID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, newMCPError(ErrorCodeNotFound, "project not found", map[string]interface{}{
					"project_id": projectID,
				})
			}
			return nil, newMCPError(ErrorCodeInternalError, "failed to look up project", map[string]interface{}{
				"error": err.Error(),
			})
		}
		task.ProjectID = &projectID
	}

	if raw := getStringDefault(args, "due_date", ""); raw != "" {
		due, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid due_date", map[string]interface{}{
				"param":  "due_date",
				"value":  raw,
				"format": dueDateLayout,
			})
		}
		task.DueDate = &due
	}

	if err := s.storage.CreateTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, newMCPError(ErrorCodeDuplicateName, "task name already exists", map[string]interface{}{
				"name": task.Name,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to create task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.invalidateSearchCache("create_task")

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"created": true,
		"task":    taskJSON(task),
	})), nil
}

// handleGetTask handles the get_task tool invocation
func (s *Server) handleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, err := requireID(args, "id")
	if err != nil {
		return nil, err
	}

	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "task not found", map[string]interface{}{
				"id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to get task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	comments, err := s.storage.ListCommentsByTask(ctx, id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list comments", map[string]interface{}{
			"error": err.Error(),
		})
	}

	commentList := make([]interface{}, 0, len(comments))
	for _, c := range comments {
		commentList = append(commentList, commentJSON(c))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"task":     taskJSON(task),
		"comments": commentList,
	})), nil
}

// handleUpdateTask handles the update_task tool invocation. Only the fields
// present in the arguments are changed; project_id 0 detaches the task from
// its project and an empty due_date clears the due date.
func (s *Server) handleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, err := requireID(args, "id")
	if err != nil {
		return nil, err
	}

	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "task not found", map[string]interface{}{
				"id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to get task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if name, ok := args["name"].(string); ok {
		if strings.TrimSpace(name) == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "name cannot be empty", map[string]interface{}{
				"param": "name",
			})
		}
		task.Name = strings.TrimSpace(name)
	}
	if desc, ok := args["description"].(string); ok {
		task.Description = desc
	}
	if status, ok := args["status"].(string); ok {
		task.Status = status
	}
	if priority, ok := args["priority"].(string); ok {
		task.Priority = priority
	}

	if err := task.Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid task", map[string]interface{}{
			"reason": err.Error(),
		})
	}

	if _, present := args["project_id"]; present {
		projectID := getInt64Default(args, "project_id", 0)
		if projectID == 0 {
			task.ProjectID = nil
		} else {
			if _, err := s.storage.GetProject(ctx, projectID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return nil, newMCPError(ErrorCodeNotFound, "project not found", map[string]interface{}{
						"project_id": projectID,
					})
				}
				return nil, newMCPError(ErrorCodeInternalError, "failed to look up project", map[string]interface{}{
					"error": err.Error(),
				})
			}
			task.ProjectID = &projectID
		}
	}

	if raw, present := args["due_date"].(string); present {
		if raw == "" {
			task.DueDate = nil
		} else {
			due, err := time.Parse(dueDateLayout, raw)
			if err != nil {
				return nil, newMCPError(ErrorCodeInvalidParams, "invalid due_date", map[string]interface{}{
					"param":  "due_date",
					"value":  raw,
					"format": dueDateLayout,
				})
			}
			task.DueDate = &due
		}
	}

	if err := s.storage.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, newMCPError(ErrorCodeDuplicateName, "task name already exists", map[string]interface{}{
				"name": task.Name,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to update task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.invalidateSearchCache("update_task")

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"updated": true,
		"task":    taskJSON(task),
	})), nil
}

// handleDeleteTask handles the delete_task tool invocation
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, err := requireID(args, "id")
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "task not found", map[string]interface{}{
				"id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.invalidateSearchCache("delete_task")

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"deleted": true,
		"id":      id,
	})), nil
}

// handleListTasks handles the list_tasks tool invocation
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}

	filter := storage.TaskFilter{
		Status:   getStringDefault(args, "status", ""),
		Priority: getStringDefault(args, "priority", ""),
	}

	if filter.Status != "" && !types.ValidStatus(filter.Status) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid status filter", map[string]interface{}{
			"param":   "status",
			"value":   filter.Status,
			"allowed": statusValues,
		})
	}
	if filter.Priority != "" && !types.ValidPriority(filter.Priority) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid priority filter", map[string]interface{}{
			"param":   "priority",
			"value":   filter.Priority,
			"allowed": priorityValues,
		})
	}

	if projectID := getInt64Default(args, "project_id", 0); projectID > 0 {
		filter.ProjectID = &projectID
	}

	tasks, err := s.storage.ListTasks(ctx, filter)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list tasks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	taskList := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		taskList = append(taskList, taskJSON(t))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count": len(tasks),
		"tasks": taskList,
	})), nil
}

// handleSearchTasks handles the search_tasks tool invocation
func (s *Server) handleSearchTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", s.limit)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", searcher.MaxLimit), map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		Query:    query,
		Limit:    limit,
		CacheTTL: s.cacheTTL,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, map[string]interface{}{
			"rank": r.Rank,
			"task": taskJSON(r.Task),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":         searcher.Normalize(query),
		"results":       results,
		"total_matches": resp.TotalMatches,
		"cache_hit":     resp.CacheHit,
		"duration_ms":   resp.Duration.Milliseconds(),
	})), nil
}

// handleCreateProject handles the create_project tool invocation
func (s *Server) handleCreateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	project := &types.Project{
		Name:        strings.TrimSpace(name),
		Description: getStringDefault(args, "description", ""),
	}

	if err := s.storage.CreateProject(ctx, project); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, newMCPError(ErrorCodeDuplicateName, "project name already exists", map[string]interface{}{
				"name": project.Name,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to create project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"created": true,
		"project": projectJSON(project),
	})), nil
}

// handleListProjects handles the list_projects tool invocation
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.storage.ListProjects(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list projects", map[string]interface{}{
			"error": err.Error(),
		})
	}

	projectList := make([]interface{}, 0, len(projects))
	for _, p := range projects {
		projectList = append(projectList, projectJSON(p))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count":    len(projects),
		"projects": projectList,
	})), nil
}

// handleDeleteProject handles the delete_project tool invocation. Tasks in
// the project survive with their project reference cleared.
func (s *Server) handleDeleteProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, err := requireID(args, "id")
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "project not found", map[string]interface{}{
				"id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"deleted": true,
		"id":      id,
	})), nil
}

// handleAddComment handles the add_comment tool invocation
func (s *Server) handleAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	taskID, err := requireID(args, "task_id")
	if err != nil {
		return nil, err
	}

	body, ok := args["body"].(string)
	if !ok || strings.TrimSpace(body) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "body parameter is required", map[string]interface{}{
			"param":  "body",
			"reason": "missing or empty",
		})
	}

	if _, err := s.storage.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "task not found", map[string]interface{}{
				"task_id": taskID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to get task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	comment := &types.Comment{
		TaskID: taskID,
		Body:   body,
	}
	if err := s.storage.AddComment(ctx, comment); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to add comment", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"created": true,
		"comment": commentJSON(comment),
	})), nil
}

// handleListComments handles the list_comments tool invocation
func (s *Server) handleListComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	taskID, err := requireID(args, "task_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "task not found", map[string]interface{}{
				"task_id": taskID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to get task", map[string]interface{}{
			"error": err.Error(),
		})
	}

	comments, err := s.storage.ListCommentsByTask(ctx, taskID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list comments", map[string]interface{}{
			"error": err.Error(),
		})
	}

	commentList := make([]interface{}, 0, len(comments))
	for _, c := range comments {
		commentList = append(commentList, commentJSON(c))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"task_id":  taskID,
		"count":    len(comments),
		"comments": commentList,
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requireID extracts a required positive integer identifier parameter
func requireID(args map[string]interface{}, key string) (int64, error) {
	id := getInt64Default(args, key, 0)
	if id <= 0 {
		return 0, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("%s parameter is required", key), map[string]interface{}{
			"param":  key,
			"reason": "missing or not a positive integer",
		})
	}
	return id, nil
}

// taskJSON renders a task for tool output
func taskJSON(t *types.Task) map[string]interface{} {
	out := map[string]interface{}{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"status":      t.Status,
		"priority":    t.Priority,
		"created_at":  t.CreatedAt.Format(time.RFC3339),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339),
	}
	if t.ProjectID != nil {
		out["project_id"] = *t.ProjectID
	}
	if t.DueDate != nil {
		out["due_date"] = t.DueDate.Format(dueDateLayout)
	}
	return out
}

// projectJSON renders a project for tool output
func projectJSON(p *types.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"created_at":  p.CreatedAt.Format(time.RFC3339),
	}
}

// commentJSON renders a comment for tool output
func commentJSON(c *types.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"task_id":    c.TaskID,
		"body":       c.Body,
		"created_at": c.CreatedAt.Format(time.RFC3339),
	}
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getInt64Default extracts an int64 parameter with a default value
func getInt64Default(args map[string]interface{}, key string, defaultValue int64) int64 {
	if val, ok := args[key].(float64); ok {
		return int64(val)
	}
	if val, ok := args[key].(int64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return int64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
