package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tasktrack/internal/cache"
	"tasktrack/internal/config"
	"tasktrack/internal/searcher"
	"tasktrack/internal/storage"
	"tasktrack/pkg/log"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks from the command line",
	Long: `Run a one-shot fuzzy search against the task database.

Examples:
  # Typos are tolerated
  tasktrack search "quarterly reprot"

  # Limit the result count
  tasktrack search --limit 5 deploy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("limit", "n", searcher.DefaultLimit, "Maximum results to return")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
		Output:     os.Stderr,
	})

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	// The cache only lives for this invocation; it still exercises the
	// same code path the server uses.
	backend, err := cache.NewMemory(cfg.CacheMaxEntries)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")

	s := searcher.NewSearcher(store, backend)
	resp, err := s.Search(cmd.Context(), searcher.SearchRequest{
		Query:    strings.Join(args, " "),
		Limit:    limit,
		CacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		fmt.Println("No matching tasks.")
		return nil
	}

	for _, r := range resp.Results {
		due := ""
		if r.Task.DueDate != nil {
			due = " due " + r.Task.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%3d. [%s/%s] #%d %s%s\n",
			r.Rank, r.Task.Status, r.Task.Priority, r.Task.ID, r.Task.Name, due)
	}
	fmt.Printf("\n%d match(es) in %s\n", resp.TotalMatches, resp.Duration.Round(time.Millisecond))
	return nil
}
