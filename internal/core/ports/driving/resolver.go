package driving

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// Resolver resolves symbol queries to documentation locations.
type Resolver interface {
	// Resolve returns the documentation entry for a query, or
	// domain.ErrNotFound after exhausting every avenue. "Not found" is
	// an expected outcome callers must not treat as a fault.
	Resolve(ctx context.Context, q domain.SymbolQuery) (*domain.InventoryEntry, error)
}
