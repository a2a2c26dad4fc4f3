// Package breaker implements three-state circuit breaking for outbound
// calls. One breaker guards one logical remote (a documentation host);
// a registry creates them lazily by name and keeps them for the
// process lifetime.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure Breaker implements the interface.
var _ driven.Breaker = (*Breaker)(nil)

// Breaker is a three-state circuit breaker. Closed admits everything
// and counts consecutive failures; open fast-fails without touching
// the remote; half-open admits trials until enough succeed to close
// again. Timeouts and cancellations count as failures like any other
// fault.
type Breaker struct {
	name string
	cfg  domain.BreakerConfig
	now  func() time.Time

	mu                   sync.Mutex
	state                domain.BreakerState
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	totalRequests        int64
	totalFailures        int64
	totalSuccesses       int64
}

// New creates a closed breaker for the named remote. Zero config
// fields take defaults.
func New(name string, cfg domain.BreakerConfig) *Breaker {
	return &Breaker{
		name:  name,
		cfg:   cfg.WithDefaults(),
		now:   time.Now,
		state: domain.BreakerClosed,
	}
}

// Execute runs op under admission control. While open it fails with
// domain.ErrCircuitOpen without invoking op; otherwise it propagates
// op's own error after recording it.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := op(ctx)
	b.record(err)
	return err
}

// admit applies the state machine's admission rules.
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == domain.BreakerOpen {
		if b.now().Sub(b.lastFailureTime) > b.cfg.ResetTimeout {
			logger.Debug("breaker %s: reset timeout elapsed, admitting half-open trial", b.name)
			b.state = domain.BreakerHalfOpen
			b.consecutiveSuccesses = 0
		} else {
			return domain.ErrCircuitOpen
		}
	}
	b.totalRequests++
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.totalFailures++
		b.consecutiveFailures++
		b.lastFailureTime = b.now()

		switch b.state {
		case domain.BreakerHalfOpen:
			// One failed trial reopens immediately, discarding
			// trial progress.
			logger.Debug("breaker %s: half-open trial failed, reopening", b.name)
			b.state = domain.BreakerOpen
			b.consecutiveSuccesses = 0
		case domain.BreakerClosed:
			if b.consecutiveFailures >= b.cfg.FailureThreshold {
				logger.Warn("breaker %s: %d consecutive failures, opening circuit",
					b.name, b.consecutiveFailures)
				b.state = domain.BreakerOpen
			}
		}
		return
	}

	b.totalSuccesses++
	b.lastSuccessTime = b.now()
	b.consecutiveFailures = 0

	if b.state == domain.BreakerHalfOpen {
		b.consecutiveSuccesses++
		if b.consecutiveSuccesses >= b.cfg.SuccessThreshold {
			logger.Info("breaker %s: recovered, closing circuit", b.name)
			b.state = domain.BreakerClosed
			b.consecutiveSuccesses = 0
		}
	}
}

// State returns the current admission state.
func (b *Breaker) State() domain.BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns a snapshot of the breaker's counters.
func (b *Breaker) Stats() domain.BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return domain.BreakerStats{
		State:                b.state,
		ConsecutiveFailures:  b.consecutiveFailures,
		ConsecutiveSuccesses: b.consecutiveSuccesses,
		TotalRequests:        b.totalRequests,
		TotalFailures:        b.totalFailures,
		TotalSuccesses:       b.totalSuccesses,
		LastFailureTime:      b.lastFailureTime,
		LastSuccessTime:      b.lastSuccessTime,
	}
}

// Reset manually returns the breaker to closed and zeroes the
// consecutive counters. Lifetime totals are kept.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = domain.BreakerClosed
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
}
