package domain

import "time"

// CacheEntry is the durable envelope the persistent cache stores per
// key. Data is kept opaque (base64 in the serialized record) so one
// cache serves compressed inventories, discovery outcomes, and
// anything else that serializes to bytes.
type CacheEntry struct {
	// Data is the cached payload.
	Data []byte `json:"data"`

	// Timestamp records when the entry was written.
	Timestamp time.Time `json:"timestamp"`

	// ETag is the validator returned by the origin, if any.
	ETag string `json:"etag,omitempty"`

	// LastModified is the origin's Last-Modified header, if any.
	LastModified string `json:"last_modified,omitempty"`
}

// Expired reports whether the entry is older than maxAge at now.
// Expiry is evaluated lazily on read; nothing sweeps proactively
// except an explicit cleanup pass.
func (e CacheEntry) Expired(maxAge time.Duration, now time.Time) bool {
	return now.Sub(e.Timestamp) > maxAge
}

// CacheStats describes the persistent cache for status display.
type CacheStats struct {
	// Files is the number of cache files on disk.
	Files int `json:"files"`

	// Bytes is the total size of all cache files.
	Bytes int64 `json:"bytes"`

	// Path is the cache directory.
	Path string `json:"path"`
}

// ClearResult reports the outcome of clearing the persistent cache.
// Clearing a cache directory that does not exist is a success with
// zero deletions, not an error.
type ClearResult struct {
	// FilesDeleted is the number of cache files removed.
	FilesDeleted int `json:"files_deleted"`

	// Success is false only when at least one deletion failed.
	Success bool `json:"success"`
}

// StatusReport aggregates cache and breaker state for the status
// surfaces (CLI tables and the TUI dashboard).
type StatusReport struct {
	// Persistent describes the on-disk cache.
	Persistent CacheStats `json:"persistent"`

	// MemoryEntries is the number of live entries in the result cache.
	MemoryEntries int `json:"memory_entries"`

	// Breakers maps remote names to their circuit state.
	Breakers map[string]BreakerStats `json:"breakers"`
}
