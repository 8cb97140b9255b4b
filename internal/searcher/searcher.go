package searcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tasktrack/internal/cache"
	"tasktrack/internal/fuzz"
	"tasktrack/internal/storage"
	"tasktrack/pkg/log"
	"tasktrack/pkg/types"
)

// Search pipeline constants
const (
	// MaxCandidates caps the prefilter result set
	MaxCandidates = 300

	// ScoreThreshold is the minimum fuzzy score for a candidate to rank.
	// Candidates scoring below it are discarded.
	ScoreThreshold = 30

	// DefaultCacheTTL is the lifetime of a cached result set
	DefaultCacheTTL = 5 * time.Minute

	// DefaultLimit and MaxLimit bound the number of returned results
	DefaultLimit = 50
	MaxLimit     = 200

	// Prefilter fragment lengths: first nameFragLen runes of the query are
	// matched against names, first descFragLen against descriptions.
	nameFragLen = 2
	descFragLen = 4
)

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query string
	Limit int // Maximum results to return; 0 means DefaultLimit

	// CacheTTL overrides DefaultCacheTTL when positive
	CacheTTL time.Duration
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []types.SearchResult
	TotalMatches int // Matches above threshold, before Limit truncation
	Duration     time.Duration
	CacheHit     bool
}

// Searcher coordinates the fuzzy task search pipeline: normalize, consult
// the versioned cache, and on a miss prefilter, rank, and store.
type Searcher struct {
	storage storage.Storage
	cache   cache.Backend
	logger  zerolog.Logger
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage, backend cache.Backend) *Searcher {
	return &Searcher{
		storage: store,
		cache:   backend,
		logger:  log.WithComponent("searcher"),
	}
}

// Search runs a fuzzy search over the task set and returns matching tasks in
// rank order (best score first).
//
// No lock is held from the version read through the cache write: concurrent identical misses may both compute and both write the
// same value, and a version bump interleaved with a search can strand one
// stale entry until its TTL. Both races are accepted; see the cache package.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	s.validateRequest(&req)

	// Blank queries are a caller error, filtered upstream
	query := Normalize(req.Query)
	if query == "" {
		return nil, fmt.Errorf("invalid search request: query cannot be blank")
	}

	// A cache backend failure downgrades the whole call to always-miss;
	// caching is an optimization, never a correctness dependency.
	version, verr := s.cache.Version()
	if verr != nil {
		s.logger.Warn().Err(verr).Msg("cache unavailable, searching without cache")
	}

	if verr == nil {
		if ids, ok := s.cache.GetResults(version, query); ok {
			results, err := s.resolve(ctx, ids, req.Limit)
			if err != nil {
				return nil, err
			}
			return &SearchResponse{
				Results:      results,
				TotalMatches: len(ids),
				Duration:     time.Since(startTime),
				CacheHit:     true,
			}, nil
		}
	}

	// Cache miss: prefilter then rank
	nameFrag, descFrag := prefilterFragments(query)
	candidates, err := s.storage.SearchCandidates(ctx, nameFrag, descFrag, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("candidate prefilter failed: %w", err)
	}

	ids := Rank(candidates, query)

	// Empty result sets are cached too: "no results" is a legitimate
	// outcome, distinct from "not cached".
	if verr == nil {
		if err := s.cache.PutResults(version, query, ids, req.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("failed to cache search results")
		}
	}

	results, err := s.resolve(ctx, ids, req.Limit)
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Results:      results,
		TotalMatches: len(ids),
		Duration:     time.Since(startTime),
	}, nil
}

// Normalize canonicalizes a raw query: whitespace-trimmed and case-folded
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// scoredCandidate pairs a task ID with its fuzzy score during ranking
type scoredCandidate struct {
	id    int64
	score int
}

// Rank scores each candidate against the normalized query and returns the
// IDs of those at or above ScoreThreshold, best score first.
//
// A candidate's score is the better of its name score and its description
// score ("best field wins"). The sort is stable, so candidates with equal
// scores keep their prefilter (storage) order.
func Rank(candidates []storage.Candidate, query string) []int64 {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score := fuzz.Score(query, strings.ToLower(c.Name))
		if c.Description != "" {
			if d := fuzz.Score(query, strings.ToLower(c.Description)); d > score {
				score = d
			}
		}
		if score < ScoreThreshold {
			continue
		}
		scored = append(scored, scoredCandidate{id: c.ID, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ids := make([]int64, len(scored))
	for i, sc := range scored {
		ids[i] = sc.id
	}
	return ids
}

// prefilterFragments returns the query slices used for cheap substring
// narrowing. Queries shorter than a fragment length use the whole query.
func prefilterFragments(query string) (nameFrag, descFrag string) {
	runes := []rune(query)
	n := len(runes)

	nameLen := nameFragLen
	if n < nameLen {
		nameLen = n
	}
	descLen := descFragLen
	if n < descLen {
		descLen = n
	}
	return string(runes[:nameLen]), string(runes[:descLen])
}

// resolve fetches full task records for ids, preserving rank order and
// silently dropping IDs whose task no longer exists (deleted after caching).
func (s *Searcher) resolve(ctx context.Context, ids []int64, limit int) ([]types.SearchResult, error) {
	if len(ids) == 0 {
		return []types.SearchResult{}, nil
	}

	tasks, err := s.storage.GetTasksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search results: %w", err)
	}

	results := make([]types.SearchResult, 0, len(ids))
	for _, id := range ids {
		task, ok := tasks[id]
		if !ok {
			continue // Task deleted since the result set was cached
		}
		results = append(results, types.SearchResult{
			TaskID: id,
			Rank:   len(results) + 1,
			Task:   task,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// validateRequest applies request defaults and bounds
func (s *Searcher) validateRequest(req *SearchRequest) {
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
	if req.CacheTTL <= 0 {
		req.CacheTTL = DefaultCacheTTL
	}
}
