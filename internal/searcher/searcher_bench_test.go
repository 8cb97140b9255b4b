package searcher

import (
	"context"
	"fmt"
	"testing"

	"tasktrack/internal/cache"
	"tasktrack/internal/storage"
	"tasktrack/pkg/types"
)

func benchStorage(b *testing.B, taskCount int) storage.Storage {
	b.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		b.Fatalf("failed to create storage: %v", err)
	}
	b.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	for i := 0; i < taskCount; i++ {
		task := &types.Task{
			Name:        fmt.Sprintf("report task %d", i),
			Description: fmt.Sprintf("periodic reporting work item number %d", i),
		}
		if err := store.CreateTask(ctx, task); err != nil {
			b.Fatalf("failed to seed task: %v", err)
		}
	}
	return store
}

func BenchmarkSearchCold(b *testing.B) {
	store := benchStorage(b, 1000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Fresh cache each iteration to measure the full pipeline
		backend, err := cache.NewMemory(16)
		if err != nil {
			b.Fatalf("failed to create cache: %v", err)
		}
		s := NewSearcher(store, backend)
		if _, err := s.Search(ctx, SearchRequest{Query: "report"}); err != nil {
			b.Fatalf("search failed: %v", err)
		}
	}
}

func BenchmarkSearchCached(b *testing.B) {
	store := benchStorage(b, 1000)
	backend, err := cache.NewMemory(16)
	if err != nil {
		b.Fatalf("failed to create cache: %v", err)
	}
	s := NewSearcher(store, backend)
	ctx := context.Background()

	// Warm the cache
	if _, err := s.Search(ctx, SearchRequest{Query: "report"}); err != nil {
		b.Fatalf("search failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Search(ctx, SearchRequest{Query: "report"}); err != nil {
			b.Fatalf("search failed: %v", err)
		}
	}
}

func BenchmarkRank(b *testing.B) {
	candidates := make([]storage.Candidate, 300)
	for i := range candidates {
		candidates[i] = storage.Candidate{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("report task %d", i),
			Description: fmt.Sprintf("periodic reporting work item number %d", i),
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Rank(candidates, "report")
	}
}
