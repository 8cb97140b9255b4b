package cache

import (
	"fmt"
	"time"
)

// MaxKeyQueryLen bounds the query portion of a cache key. Longer normalized
// queries are truncated before key construction so adversarial input cannot
// create unbounded key cardinality.
const MaxKeyQueryLen = 64

// Backend is the shared search cache: versioned result storage plus the
// monotonic search version counter used for bulk invalidation.
//
// The version counter is part of the backend, not process state, so that a
// shared-store implementation (e.g. an atomic increment in a distributed
// cache) keeps horizontally scaled instances in agreement.
type Backend interface {
	// Version returns the current search version, initializing it to 1 on
	// first access. Initialization is atomic: the first caller wins and all
	// concurrent callers observe the same value.
	Version() (int64, error)

	// BumpVersion atomically increments the search version by 1 and returns
	// the new value. Task mutation paths call this exactly once per
	// create/update/delete, after the write commits. Entries stored under
	// prior versions become unreachable; they age out via TTL.
	BumpVersion() (int64, error)

	// GetResults returns the ordered task ID list cached for
	// (version, query), or false if absent or expired. An empty list is a
	// valid cached value, distinct from a miss.
	GetResults(version int64, query string) ([]int64, bool)

	// PutResults stores the ordered task ID list for (version, query) with
	// the given TTL from now.
	PutResults(version int64, query string, ids []int64, ttl time.Duration) error
}

// Key builds the cache key embedding the search version, truncating the
// query portion to MaxKeyQueryLen bytes.
func Key(version int64, query string) string {
	if len(query) > MaxKeyQueryLen {
		query = query[:MaxKeyQueryLen]
	}
	return fmt.Sprintf("search:v%d:%s", version, query)
}
