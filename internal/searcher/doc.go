// Package searcher implements fuzzy task search with versioned result
// caching.
//
// The pipeline has three stages behind a single entry point:
//
//   - Prefilter: a cheap case-insensitive substring query narrows the full
//     task set to at most 300 candidates, matching the first 2 characters of
//     the query against names and the first 4 against descriptions. High
//     recall, low precision; storage order.
//   - Rank: each candidate is scored with a fuzzy partial ratio against its
//     name and description, taking the better of the two. Scores below 30
//     are discarded; survivors are stably sorted best-first.
//   - Cache: the ordered ID list is stored under a key embedding the current
//     search version, with a 5 minute TTL. Task mutations bump the version,
//     making every cached entry unreachable at once.
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store, backend)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    Query: "monthly report",
//	    Limit: 20,
//	})
//
//	for _, r := range resp.Results {
//	    fmt.Printf("[%d] %s\n", r.Rank, r.Task.Name)
//	}
//
// # Consistency
//
// Results served from cache reflect the task set as of the last version
// bump, at worst TTL-stale if a bump raced an in-flight search. Cached IDs
// whose tasks have since been deleted are dropped during resolution rather
// than surfaced as errors.
//
// The prefilter trades recall for cost: a long query whose match starts
// mid-string can miss a true match because only its leading characters are
// used for narrowing. Replacing the substring pass with a trigram index
// would lift that limitation without changing this package's contract.
package searcher
