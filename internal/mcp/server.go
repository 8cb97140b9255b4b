package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"tasktrack/internal/cache"
	"tasktrack/internal/config"
	"tasktrack/internal/searcher"
	"tasktrack/internal/storage"
	"tasktrack/pkg/log"
)

const (
	// ServerName is the MCP server name
	ServerName = "tasktrack"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	cache    cache.Backend
	searcher *searcher.Searcher
	cacheTTL time.Duration
	limit    int
	logger   zerolog.Logger
}

// NewServer creates a new MCP server instance from configuration
func NewServer(cfg *config.Config) (*Server, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create the shared result cache + version counter
	backend, err := cache.NewMemory(cfg.CacheMaxEntries)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return NewServerWithDeps(store, backend, cfg), nil
}

// NewServerWithDeps wires a server from pre-built dependencies. Used by
// tests and by alternate cache backends.
func NewServerWithDeps(store storage.Storage, backend cache.Backend, cfg *config.Config) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		storage:  store,
		cache:    backend,
		searcher: searcher.NewSearcher(store, backend),
		cacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		limit:    cfg.ResultLimit,
		logger:   log.WithComponent("mcp"),
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Task tools
	s.mcp.AddTool(createTaskTool(), s.handleCreateTask)
	s.mcp.AddTool(getTaskTool(), s.handleGetTask)
	s.mcp.AddTool(updateTaskTool(), s.handleUpdateTask)
	s.mcp.AddTool(deleteTaskTool(), s.handleDeleteTask)
	s.mcp.AddTool(listTasksTool(), s.handleListTasks)
	s.mcp.AddTool(searchTasksTool(), s.handleSearchTasks)

	// Project tools
	s.mcp.AddTool(createProjectTool(), s.handleCreateProject)
	s.mcp.AddTool(listProjectsTool(), s.handleListProjects)
	s.mcp.AddTool(deleteProjectTool(), s.handleDeleteProject)

	// Comment tools
	s.mcp.AddTool(addCommentTool(), s.handleAddComment)
	s.mcp.AddTool(listCommentsTool(), s.handleListComments)
}

// invalidateSearchCache is the mutation hook: called exactly once after each
// successful task create, update, or delete, before the tool returns. A
// failed bump is logged but never fails the mutation; stale results simply
// persist until TTL.
func (s *Server) invalidateSearchCache(op string) {
	version, err := s.cache.BumpVersion()
	if err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("failed to bump search version")
		return
	}
	s.logger.Debug().Str("op", op).Int64("search_version", version).Msg("search cache invalidated")
}
