package services

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.CacheAdmin = (*AdminService)(nil)

// AdminService handles cache administration: clearing both tiers and
// reporting their state alongside the circuit breakers.
type AdminService struct {
	results  driven.KeyedCache[*domain.InventoryEntry]
	indexes  driven.KeyedCache[*inventory.Index]
	store    driven.PersistentCache
	breakers driven.BreakerRegistry
}

// NewAdminService creates the admin service over the same collaborators
// the resolver uses.
func NewAdminService(
	results driven.KeyedCache[*domain.InventoryEntry],
	indexes driven.KeyedCache[*inventory.Index],
	store driven.PersistentCache,
	breakers driven.BreakerRegistry,
) *AdminService {
	return &AdminService{
		results:  results,
		indexes:  indexes,
		store:    store,
		breakers: breakers,
	}
}

// ClearCaches empties the memory tiers and deletes every persistent
// cache file. A missing cache directory counts as an empty cache.
func (s *AdminService) ClearCaches(ctx context.Context) (domain.ClearResult, error) {
	s.results.Purge()
	s.indexes.Purge()

	result, err := s.store.Clear()
	if err != nil {
		return result, err
	}
	logger.Info("cleared caches: %d files deleted", result.FilesDeleted)
	return result, nil
}

// Report snapshots both cache tiers and all circuit breakers.
func (s *AdminService) Report(ctx context.Context) (domain.StatusReport, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return domain.StatusReport{}, err
	}
	return domain.StatusReport{
		Persistent:    stats,
		MemoryEntries: s.results.Len(),
		Breakers:      s.breakers.Stats(),
	}, nil
}
