// Package cache implements the versioned search result cache.
//
// Results are keyed by (search version, normalized query). The version is a
// monotonic counter embedded in every key; bumping it on task mutations
// makes all previously cached entries unreachable at once, without
// enumerating or deleting keys. Orphaned entries age out via TTL.
//
//	version, _ := backend.Version()
//	if ids, ok := backend.GetResults(version, "report"); ok {
//	    // cache hit - ids are in rank order
//	}
//
//	// after computing a result set
//	_ = backend.PutResults(version, "report", ids, 5*time.Minute)
//
//	// after any task create/update/delete
//	_, _ = backend.BumpVersion()
//
// There is no mutual exclusion around the read-version, compute, store
// sequence: two
// concurrent misses may both compute and both write, which is harmless since
// both compute the same result. A bump interleaved between a search's
// version read and its write can leave one stale entry under the new
// version; that staleness window is bounded by the TTL and is accepted
// behavior, not a bug.
//
// An empty ID list is a legitimate cached value ("no results"), distinct
// from a miss.
package cache
