package breaker

import (
	"sync"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.BreakerRegistry = (*Registry)(nil)

// Registry hands out per-remote breakers, creating each lazily on
// first use. It is constructed explicitly and injected so tests can
// build isolated instances instead of sharing module-level state.
type Registry struct {
	cfg domain.BreakerConfig

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry creates an empty registry whose breakers share cfg.
func NewRegistry(cfg domain.BreakerConfig) *Registry {
	return &Registry{
		cfg:      cfg.WithDefaults(),
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for a logical remote name, creating it on
// first use.
func (r *Registry) Get(name string) driven.Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.breakers[name]
	if !ok {
		b = New(name, r.cfg)
		r.breakers[name] = b
	}
	return b
}

// Stats snapshots every known breaker, keyed by remote name.
func (r *Registry) Stats() map[string]domain.BreakerStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.BreakerStats, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Stats()
	}
	return out
}

// ResetAll resets every known breaker to closed.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.breakers {
		b.Reset()
	}
}
