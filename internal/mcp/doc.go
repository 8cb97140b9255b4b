// Package mcp implements the Model Context Protocol (MCP) server for TaskTrack.
//
// The MCP server exposes the task tracker to AI coding assistants over stdio.
// Tools:
//   - create_task, get_task, update_task, delete_task, list_tasks
//   - search_tasks: fuzzy search over task names and descriptions
//   - create_project, list_projects, delete_project
//   - add_comment, list_comments
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server listens on stdin and writes responses to stdout, so all logging
// goes to stderr.
//
// # Tool: search_tasks
//
// Fuzzy search tasks by name and description:
//
//	Request:
//	{
//	  "name": "search_tasks",
//	  "arguments": {
//	    "query": "quarterly reprot",
//	    "limit": 20
//	  }
//	}
//
//	Response:
//	{
//	  "query": "quarterly reprot",
//	  "results": [
//	    {
//	      "rank": 1,
//	      "task": {
//	        "id": 42,
//	        "name": "Write quarterly report",
//	        "status": "todo",
//	        "priority": "high"
//	      }
//	    }
//	  ],
//	  "total_matches": 1,
//	  "cache_hit": false,
//	  "duration_ms": 3
//	}
//
// Search results are cached per (version, query). Every task mutation made
// through create_task, update_task, or delete_task bumps the version before
// the tool returns, so a subsequent search never serves results the caller's
// own mutation invalidated.
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "name",
//	      "reason": "missing or empty"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, cache, etc.)
//   - -32001: Task or project not found
//   - -32002: Task or project name already exists
//   - -32004: Empty search query
//
// # MCP Client Configuration
//
// Configure in the client's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "tasktrack": {
//	      "command": "/usr/local/bin/tasktrack",
//	      "args": ["serve"]
//	    }
//	  }
//	}
package mcp
