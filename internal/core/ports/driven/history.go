package driven

import (
	"context"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// HistoryStore persists resolution outcomes for usage statistics.
// Recording is best-effort; resolution never fails because history
// could not be written.
type HistoryStore interface {
	// Record stores one resolution outcome.
	Record(ctx context.Context, rec domain.ResolutionRecord) error

	// Stats aggregates the stored history.
	Stats(ctx context.Context) (domain.UsageStats, error)

	// Close releases the underlying storage.
	Close() error
}
