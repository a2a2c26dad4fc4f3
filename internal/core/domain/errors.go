package domain

import "errors"

// Domain errors represent resolution and infrastructure failures.
// Callers match these with errors.Is; adapters wrap them with context.
var (
	// ErrNotFound indicates no documentation entry exists for a query.
	// This is a normal outcome, not a fault: callers render it as
	// "no documentation found" rather than an error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed query or argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInventory indicates an inventory payload failed header
	// or minimum-size validation. Permanent for that fetch attempt and
	// never retried against the same payload.
	ErrMalformedInventory = errors.New("malformed inventory")

	// ErrCircuitOpen indicates the circuit breaker rejected a call
	// without attempting the remote operation. Callers treat it as
	// transient-unavailable and fall through to the next avenue.
	ErrCircuitOpen = errors.New("service unavailable: circuit open")
)
