package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tasktrack/internal/storage"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "TaskTrack - task tracker with fuzzy search, served over MCP",
	Long: `TaskTrack is a task tracking server for AI coding assistants.

It stores tasks, projects, and comments in SQLite and exposes them as
MCP tools over stdio. Task search is fuzzy: queries tolerate typos and
partial words, and result sets are cached with version-based
invalidation so mutations are never masked by stale hits.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"TaskTrack version %s\nCommit: %s\nBuilt: %s\nSQLite driver: %s (%s)\n",
		Version, Commit, BuildTime, storage.DriverName, storage.BuildMode,
	))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
}
