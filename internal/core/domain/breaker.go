package domain

import "time"

// BreakerState is the admission state of a circuit breaker.
type BreakerState string

// Circuit breaker states.
const (
	// BreakerClosed admits all operations (initial state).
	BreakerClosed BreakerState = "closed"

	// BreakerOpen rejects operations immediately without attempting
	// the remote call.
	BreakerOpen BreakerState = "open"

	// BreakerHalfOpen admits trial operations after the reset timeout.
	BreakerHalfOpen BreakerState = "half-open"
)

// IsValid returns true if the state is recognised.
func (s BreakerState) IsValid() bool {
	switch s {
	case BreakerClosed, BreakerOpen, BreakerHalfOpen:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s BreakerState) String() string {
	return string(s)
}

// BreakerConfig tunes a circuit breaker. Zero fields take defaults.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// circuit.
	FailureThreshold int

	// SuccessThreshold is the half-open trial-success count that
	// closes the circuit again.
	SuccessThreshold int

	// Timeout is how long the circuit stays open before admitting a
	// half-open trial, when ResetTimeout is unset.
	Timeout time.Duration

	// ResetTimeout overrides Timeout for the open→half-open
	// transition.
	ResetTimeout time.Duration
}

// DefaultBreakerConfig returns the standard thresholds: 5 failures to
// open, 2 successes to close, 60s open timeout, 120s reset timeout.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          60 * time.Second,
		ResetTimeout:     120 * time.Second,
	}
}

// WithDefaults fills unset fields from DefaultBreakerConfig.
func (c BreakerConfig) WithDefaults() BreakerConfig {
	d := DefaultBreakerConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = d.SuccessThreshold
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = c.Timeout
	}
	return c
}

// BreakerStats is a snapshot of one breaker's counters for
// observability.
type BreakerStats struct {
	// State is the current admission state.
	State BreakerState `json:"state"`

	// ConsecutiveFailures counts failures since the last success.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// ConsecutiveSuccesses counts half-open trial successes.
	ConsecutiveSuccesses int `json:"consecutive_successes"`

	// TotalRequests counts every admitted operation.
	TotalRequests int64 `json:"total_requests"`

	// TotalFailures counts every recorded failure.
	TotalFailures int64 `json:"total_failures"`

	// TotalSuccesses counts every recorded success.
	TotalSuccesses int64 `json:"total_successes"`

	// LastFailureTime is the most recent failure, zero if none.
	LastFailureTime time.Time `json:"last_failure_time"`

	// LastSuccessTime is the most recent success, zero if none.
	LastSuccessTime time.Time `json:"last_success_time"`
}
