package driven

import (
	"time"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// KeyedCache is a bounded in-process cache with least-recently-used
// eviction and optional TTL. Implementations must tolerate concurrent
// use without a single lock serializing unrelated lookups.
type KeyedCache[V any] interface {
	// Get returns the cached value. An entry older than the TTL is
	// treated as absent and evicted as a side effect.
	Get(key string) (V, bool)

	// Set stores a value, evicting the least-recently-used entry when
	// at capacity.
	Set(key string, value V)

	// Has reports presence under the same TTL rule as Get.
	Has(key string) bool

	// Cleanup eagerly sweeps expired entries and returns the count
	// removed. Correctness never depends on it; it only bounds memory
	// during idle periods.
	Cleanup() int

	// Len returns the current entry count.
	Len() int

	// Purge drops every entry.
	Purge()
}

// PersistentCache is the durable key→entry store. Read and write
// failures degrade to "no cached value" instead of propagating, except
// Clear and Stats which report explicitly.
type PersistentCache interface {
	// Get returns the stored entry, or false if absent or unreadable.
	Get(key string) (*domain.CacheEntry, bool)

	// Set stores data with optional validator metadata.
	Set(key string, data []byte, etag, lastModified string) error

	// Delete removes one key. Removing an absent key is not an error.
	Delete(key string) error

	// Clear removes every entry and reports the outcome. A missing
	// cache directory is a success with zero deletions.
	Clear() (domain.ClearResult, error)

	// Stats describes the cache contents.
	Stats() (domain.CacheStats, error)

	// IsExpired reports whether key is absent or older than maxAge.
	IsExpired(key string, maxAge time.Duration) bool
}
