// Package disk provides the persistent cache tier: one JSON envelope
// file per sanitized key under a dedicated cache directory, surviving
// process restarts.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure FileCache implements the interface.
var _ driven.PersistentCache = (*FileCache)(nil)

// FileCache stores cache entries as files named after their sanitized
// key. Reads and writes are fallible; every read failure degrades to
// "no cached value" so storage problems never surface to resolution
// callers.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a persistent cache under dir. If dir is empty,
// defaults to ~/.pyref/cache.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".pyref", "cache")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the stored entry for key, or false if the file is
// absent, unreadable or corrupt.
func (c *FileCache) Get(key string) (*domain.CacheEntry, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cache read failed for %q: %v", key, err)
		}
		return nil, false
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("cache entry %q is corrupt, ignoring: %v", key, err)
		return nil, false
	}
	return &entry, true
}

// Set stores data under key with optional validator metadata. The
// entry is written to a temp file and renamed so readers never see a
// partial record.
func (c *FileCache) Set(key string, data []byte, etag, lastModified string) error {
	entry := domain.CacheEntry{
		Data:         data,
		Timestamp:    c.now(),
		ETag:         etag,
		LastModified: lastModified,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(raw)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache entry: %w", errors.Join(writeErr, closeErr))
	}
	if err := os.Rename(tmpPath, c.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Delete removes one key. A missing file is not an error.
func (c *FileCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every cache file. A missing directory is a success
// with zero deletions.
func (c *FileCache) Clear() (domain.ClearResult, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ClearResult{Success: true}, nil
		}
		return domain.ClearResult{}, fmt.Errorf("reading cache directory: %w", err)
	}

	result := domain.ClearResult{Success: true}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			logger.Warn("failed to delete cache file %s: %v", e.Name(), err)
			result.Success = false
			continue
		}
		result.FilesDeleted++
	}
	return result, nil
}

// Stats reports the cache file count and total size.
func (c *FileCache) Stats() (domain.CacheStats, error) {
	stats := domain.CacheStats{Path: c.dir}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		stats.Files++
		if info, err := e.Info(); err == nil {
			stats.Bytes += info.Size()
		}
	}
	return stats, nil
}

// IsExpired reports whether key is absent or older than maxAge.
func (c *FileCache) IsExpired(key string, maxAge time.Duration) bool {
	entry, ok := c.Get(key)
	if !ok {
		return true
	}
	return entry.Expired(maxAge, c.now())
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps an arbitrary key to a storage-safe filename by
// replacing every non-alphanumeric rune with an underscore. The
// mapping is deterministic; the expected key space (one key per
// library/version namespace) makes collisions a non-concern.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
}
