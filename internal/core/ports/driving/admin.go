package driving

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// CacheAdmin exposes the cache-management surface for user-triggered
// clearing and status display.
type CacheAdmin interface {
	// ClearCaches drops both cache tiers and reports what was removed.
	ClearCaches(ctx context.Context) (domain.ClearResult, error)

	// Report snapshots cache and breaker state.
	Report(ctx context.Context) (domain.StatusReport, error)
}
