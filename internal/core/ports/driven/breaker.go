package driven

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// Breaker guards one logical remote with three-state admission
// control. Execute fails fast with domain.ErrCircuitOpen while the
// circuit is open; otherwise it runs the operation and propagates its
// error after recording it.
type Breaker interface {
	// Execute runs op under admission control.
	Execute(ctx context.Context, op func(context.Context) error) error

	// State returns the current admission state.
	State() domain.BreakerState

	// Stats returns a snapshot of the breaker's counters.
	Stats() domain.BreakerStats

	// Reset manually returns the breaker to closed and zeroes its
	// consecutive counters.
	Reset()
}

// BreakerRegistry hands out per-remote breakers, creating them lazily
// on first use. Breakers persist for the process lifetime.
type BreakerRegistry interface {
	// Get returns the breaker for a logical remote name.
	Get(name string) Breaker

	// Stats snapshots every known breaker.
	Stats() map[string]domain.BreakerStats

	// ResetAll resets every known breaker.
	ResetAll()
}
