package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// statusValues and priorityValues are the accepted enum values for task fields
var (
	statusValues   = []string{"todo", "progress", "done"}
	priorityValues = []string{"low", "medium", "high"}
)

// createTaskTool returns the tool definition for create_task
func createTaskTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_task",
		Description: "Create a new task",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Task name (unique across all tasks)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional longer description",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Task status",
					"enum":        statusValues,
					"default":     "todo",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"description": "Task priority",
					"enum":        priorityValues,
					"default":     "medium",
				},
				"project_id": map[string]interface{}{
					"type":        "integer",
					"description": "Optional ID of the project this task belongs to",
				},
				"due_date": map[string]interface{}{
					"type":        "string",
					"description": "Optional due date in YYYY-MM-DD format",
				},
			},
			Required: []string{"name"},
		},
	}
}

// getTaskTool returns the tool definition for get_task
func getTaskTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_task",
		Description: "Get a task by ID, including its comments",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Task ID",
				},
			},
			Required: []string{"id"},
		},
	}
}

// updateTaskTool returns the tool definition for update_task
func updateTaskTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_task",
		Description: "Update fields of an existing task. Omitted fields keep their current values",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Task ID",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New task name",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "New description",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "New status",
					"enum":        statusValues,
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"description": "New priority",
					"enum":        priorityValues,
				},
				"project_id": map[string]interface{}{
					"type":        "integer",
					"description": "New project ID (0 detaches the task from its project)",
				},
				"due_date": map[string]interface{}{
					"type":        "string",
					"description": "New due date in YYYY-MM-DD format (empty string clears it)",
				},
			},
			Required: []string{"id"},
		},
	}
}

// deleteTaskTool returns the tool definition for delete_task
func deleteTaskTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task and its comments",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Task ID",
				},
			},
			Required: []string{"id"},
		},
	}
}

// listTasksTool returns the tool definition for list_tasks
func listTasksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status, priority, or project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Filter by status",
					"enum":        statusValues,
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"description": "Filter by priority",
					"enum":        priorityValues,
				},
				"project_id": map[string]interface{}{
					"type":        "integer",
					"description": "Filter by project ID",
				},
			},
		},
	}
}

// searchTasksTool returns the tool definition for search_tasks
func searchTasksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_tasks",
		Description: "Fuzzy-search tasks by name and description. Tolerates typos and partial phrases; results are ranked by similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (words or partial phrases)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-200)",
					"default":     50,
					"minimum":     1,
					"maximum":     200,
				},
			},
			Required: []string{"query"},
		},
	}
}

// createProjectTool returns the tool definition for create_project
func createProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_project",
		Description: "Create a new project for grouping tasks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Project name (unique)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional project description",
				},
			},
			Required: []string{"name"},
		},
	}
}

// listProjectsTool returns the tool definition for list_projects
func listProjectsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_projects",
		Description: "List all projects",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// deleteProjectTool returns the tool definition for delete_project
func deleteProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project. Its tasks are kept and detached",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Project ID",
				},
			},
			Required: []string{"id"},
		},
	}
}

// addCommentTool returns the tool definition for add_comment
func addCommentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_comment",
		Description: "Attach a comment to a task",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "integer",
					"description": "Task ID",
				},
				"body": map[string]interface{}{
					"type":        "string",
					"description": "Comment text",
				},
			},
			Required: []string{"task_id", "body"},
		},
	}
}

// listCommentsTool returns the tool definition for list_comments
func listCommentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_comments",
		Description: "List comments on a task in creation order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "integer",
					"description": "Task ID",
				},
			},
			Required: []string{"task_id"},
		},
	}
}
