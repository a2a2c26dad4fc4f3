package driven

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// LibraryDiscovery locates documentation for libraries with no
// preconfigured inventory. Outcomes of both polarities are cached for
// a long TTL so known-bad libraries do not re-trigger probing.
type LibraryDiscovery interface {
	// Discover probes candidate documentation hosts for library and
	// returns the cached or freshly probed outcome. A negative outcome
	// is a valid result, not an error.
	Discover(ctx context.Context, library string) (domain.DiscoveryResult, error)
}
