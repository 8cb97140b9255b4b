// Package types provides shared type definitions for the tasktrack server.
//
// This package defines domain types used across multiple components of
// tasktrack, including tasks, projects, comments, and search results.
//
// # Core Types
//
// Task is the central entity. Names are unique; description and project
// membership are optional:
//
//	task := &types.Task{
//	    Name:        "Monthly Report",
//	    Description: "Compile usage numbers for the monthly report",
//	    Status:      types.StatusTodo,
//	    Priority:    types.PriorityMedium,
//	}
//
// SearchResult pairs a task with its 1-based rank in a search result set:
//
//	for _, r := range resp.Results {
//	    fmt.Printf("[%d] %s\n", r.Rank, r.Task.Name)
//	}
//
// Status and priority fields are constrained string enums; use ValidStatus
// and ValidPriority (or Task.Validate) before persisting.
package types
