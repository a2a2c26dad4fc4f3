package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure ResolverService implements the interface.
var _ driving.Resolver = (*ResolverService)(nil)

// maxInventoryBytes bounds an inventory download. The largest real
// inventories (CPython, SciPy) sit around 2 MB compressed.
const maxInventoryBytes = 32 << 20

// indexed pairs a built index with the tier that produced it.
type indexed struct {
	idx *inventory.Index
	src domain.ResolutionSource
}

// ResolverService is the inventory manager: it orchestrates cache
// tiers, inventory fetching, parsing and library discovery to answer
// symbol queries. Caches, fetcher and breakers are injected
// collaborators with their own lifecycle; the service owns only
// query-time orchestration.
type ResolverService struct {
	results  driven.KeyedCache[*domain.InventoryEntry]
	indexes  driven.KeyedCache[*inventory.Index]
	store    driven.PersistentCache
	fetcher  driven.Fetcher
	breakers driven.BreakerRegistry
	disco    driven.LibraryDiscovery
	history  driven.HistoryStore

	mu       sync.RWMutex
	settings domain.Settings

	// group deduplicates concurrent builds of the same
	// (library, version) index: a second caller awaits the first
	// result instead of issuing its own fetch.
	group singleflight.Group
}

// NewResolverService creates the resolver. discovery may be nil when
// auto-discovery is disabled; history may be nil to skip usage
// recording.
func NewResolverService(
	results driven.KeyedCache[*domain.InventoryEntry],
	indexes driven.KeyedCache[*inventory.Index],
	store driven.PersistentCache,
	fetcher driven.Fetcher,
	breakers driven.BreakerRegistry,
	discovery driven.LibraryDiscovery,
	settings domain.Settings,
) *ResolverService {
	return &ResolverService{
		results:  results,
		indexes:  indexes,
		store:    store,
		fetcher:  fetcher,
		breakers: breakers,
		disco:    discovery,
		settings: settings.WithDefaults(),
	}
}

// SetHistoryStore attaches best-effort usage recording.
func (s *ResolverService) SetHistoryStore(h driven.HistoryStore) {
	s.history = h
}

// UpdateSettings swaps the live settings. The serve loop calls this on
// config-file changes.
func (s *ResolverService) UpdateSettings(set domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = set.WithDefaults()
}

func (s *ResolverService) currentSettings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Resolve answers a symbol query through the fallback chain: memory
// cache, keyword table, explicit library index, stdlib index,
// discovery, synthetic builtin entry. Failures at any single step
// degrade to the next avenue; only full exhaustion yields
// domain.ErrNotFound.
func (s *ResolverService) Resolve(ctx context.Context, q domain.SymbolQuery) (*domain.InventoryEntry, error) {
	started := time.Now()
	norm, err := q.Normalized()
	if err != nil {
		return nil, err
	}

	logger.Section("Symbol Resolution")
	logger.Debug("query: %s", norm)

	key := norm.CacheKey()
	if entry, ok := s.results.Get(key); ok {
		logger.Debug("memory cache hit for %s", key)
		s.record(ctx, norm, entry, domain.SourceMemory, started)
		return entry, nil
	}

	if norm.Library == "" && domain.IsKeyword(norm.Name) {
		entry := domain.KeywordEntry(norm.Name, norm.Version)
		s.results.Set(key, entry)
		s.record(ctx, norm, entry, domain.SourceKeyword, started)
		return entry, nil
	}

	settings := s.currentSettings()
	stdlibUnavailable := false

	// Explicitly requested library first.
	if norm.Library != "" && norm.Library != string(domain.LibraryPython) {
		if invURL, baseURL, ok := settings.LibraryLocation(norm.Library, norm.Version); ok {
			if entry, src := s.lookupIn(ctx, norm.Library, invURL, baseURL, norm); entry != nil {
				s.results.Set(key, entry)
				s.record(ctx, norm, entry, src, started)
				return entry, nil
			}
		}
	}

	// Standard library fallback.
	stdInv, stdBase, _ := settings.LibraryLocation(string(domain.LibraryPython), norm.Version)
	entry, src := s.lookupIn(ctx, string(domain.LibraryPython), stdInv, stdBase, norm)
	if entry != nil {
		s.results.Set(key, entry)
		s.record(ctx, norm, entry, src, started)
		return entry, nil
	}
	if src == domain.SourceNone {
		stdlibUnavailable = true
	}

	// Auto-discovery for libraries nothing configured.
	if norm.Library != "" && settings.AutoDiscovery && s.disco != nil {
		if _, _, configured := settings.LibraryLocation(norm.Library, norm.Version); !configured {
			result, err := s.disco.Discover(ctx, norm.Library)
			if err != nil {
				logger.Warn("discovery for %s failed: %v", norm.Library, err)
			} else if result.Found {
				if entry, _ := s.lookupIn(ctx, norm.Library, result.InventoryURL, result.BaseURL, norm); entry != nil {
					s.results.Set(key, entry)
					s.record(ctx, norm, entry, domain.SourceDiscovered, started)
					return entry, nil
				}
			}
		}
	}

	// Degraded offline fallback: synthesize stdlib URLs for core
	// builtins when the stdlib inventory could not be obtained.
	if stdlibUnavailable && (norm.Library == "" || norm.Library == string(domain.LibraryPython)) {
		if entry := domain.SyntheticBuiltinEntry(norm); entry != nil {
			logger.Info("stdlib inventory unavailable, using synthetic entry for %s", norm.Name)
			s.results.Set(key, entry)
			s.record(ctx, norm, entry, domain.SourceSynthetic, started)
			return entry, nil
		}
	}

	s.record(ctx, norm, nil, domain.SourceNone, started)
	return nil, domain.ErrNotFound
}

// lookupIn resolves the query against one library's index. All
// failures (open circuits, network faults, malformed payloads) are
// logged and reported as a miss so the caller degrades to its next
// avenue. src is SourceNone when the index itself was unavailable.
func (s *ResolverService) lookupIn(ctx context.Context, library, invURL, baseURL string, q domain.SymbolQuery) (*domain.InventoryEntry, domain.ResolutionSource) {
	idx, src, err := s.index(ctx, library, invURL, baseURL, q.Version)
	if err != nil {
		logger.Warn("index for %s unavailable: %v", library, err)
		return nil, domain.SourceNone
	}
	entry, ok := idx.Lookup(q.Name)
	if !ok {
		logger.Debug("%s not found in %s index (%d symbols)", q.Name, library, idx.Len())
		return nil, src
	}
	return entry, src
}

// index obtains the (library, version) inventory index: the in-process
// index cache first, then the persistent cache (revalidated when
// stale), then a full fetch. Concurrent callers for the same key share
// one build.
func (s *ResolverService) index(ctx context.Context, library, invURL, baseURL, version string) (*inventory.Index, domain.ResolutionSource, error) {
	memKey := "index:" + library + "@" + version
	if idx, ok := s.indexes.Get(memKey); ok {
		return idx, domain.SourceMemory, nil
	}

	v, err, _ := s.group.Do(memKey, func() (any, error) {
		got, err := s.buildIndex(ctx, library, invURL, baseURL, version)
		if err != nil {
			return nil, err
		}
		s.indexes.Set(memKey, got.idx)
		return got, nil
	})
	if err != nil {
		return nil, domain.SourceNone, err
	}
	got := v.(indexed)
	return got.idx, got.src, nil
}

func (s *ResolverService) buildIndex(ctx context.Context, library, invURL, baseURL, version string) (indexed, error) {
	settings := s.currentSettings()
	cacheKey := "inventory:" + library + "@" + version

	cached, haveCached := s.store.Get(cacheKey)
	if haveCached && !cached.Expired(settings.InventoryTTL, time.Now()) {
		idx, err := inventory.Parse(cached.Data, baseURL)
		if err == nil {
			logger.Debug("inventory for %s: persistent cache hit (%d symbols)", library, idx.Len())
			return indexed{idx: idx, src: domain.SourcePersistent}, nil
		}
		logger.Warn("cached inventory for %s is corrupt, refetching: %v", library, err)
		haveCached = false
	}

	opts := driven.FetchOptions{MaxBytes: maxInventoryBytes}
	if haveCached {
		// Stale entry: revalidate instead of re-downloading.
		opts.ETag = cached.ETag
		opts.LastModified = cached.LastModified
	}

	var res *driven.FetchResult
	fetchErr := s.breakers.Get(hostOf(invURL)).Execute(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.fetcher.Fetch(ctx, invURL, opts)
		return err
	})
	if fetchErr != nil {
		if haveCached {
			// Serve stale rather than nothing while the origin is
			// unreachable or its circuit is open.
			logger.Warn("revalidating %s inventory failed (%v), serving stale copy", library, fetchErr)
			idx, err := inventory.Parse(cached.Data, baseURL)
			if err == nil {
				return indexed{idx: idx, src: domain.SourcePersistent}, nil
			}
		}
		return indexed{}, fetchErr
	}

	payload := res.Body
	src := domain.SourceFetched
	if res.NotModified && haveCached {
		payload = cached.Data
		src = domain.SourcePersistent
	}

	idx, err := inventory.Parse(payload, baseURL)
	if err != nil {
		return indexed{}, fmt.Errorf("parsing %s inventory: %w", library, err)
	}

	if err := s.store.Set(cacheKey, payload, res.ETag, res.LastModified); err != nil {
		// Cache write failure degrades to uncached operation.
		logger.Warn("persisting %s inventory failed: %v", library, err)
	}

	logger.Info("inventory for %s: indexed %d symbols", library, idx.Len())
	return indexed{idx: idx, src: src}, nil
}

// record persists the resolution outcome, best-effort.
func (s *ResolverService) record(ctx context.Context, q domain.SymbolQuery, entry *domain.InventoryEntry, src domain.ResolutionSource, started time.Time) {
	if s.history == nil {
		return
	}
	rec := domain.ResolutionRecord{
		ID:        uuid.New().String(),
		Name:      q.Name,
		Version:   q.Version,
		Library:   q.Library,
		Found:     entry != nil,
		Source:    src,
		Duration:  time.Since(started),
		CreatedAt: time.Now(),
	}
	if err := s.history.Record(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("recording resolution history failed: %v", err)
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
