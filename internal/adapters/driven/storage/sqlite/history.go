// Package sqlite persists resolution history for usage statistics.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	version     TEXT NOT NULL,
	library     TEXT NOT NULL DEFAULT '',
	found       INTEGER NOT NULL,
	source      TEXT NOT NULL,
	duration_us INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolutions_created ON resolutions(created_at);
`

// HistoryStore is a SQLite-backed record of resolution outcomes.
type HistoryStore struct {
	db   *sql.DB
	path string
}

// NewHistoryStore opens (or creates) the history database under
// dataDir. If dataDir is empty, defaults to ~/.pyref/data.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pyref", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode keeps concurrent resolve calls from blocking each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &HistoryStore{db: db, path: dbPath}, nil
}

// Record stores one resolution outcome.
func (s *HistoryStore) Record(ctx context.Context, rec domain.ResolutionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, name, version, library, found, source, duration_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Version, rec.Library,
		boolToInt(rec.Found), rec.Source.String(),
		rec.Duration.Microseconds(), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// Stats aggregates the stored history.
func (s *HistoryStore) Stats(ctx context.Context) (domain.UsageStats, error) {
	stats := domain.UsageStats{BySource: make(map[domain.ResolutionSource]int64)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(found), 0), COALESCE(AVG(duration_us), 0) FROM resolutions`)
	var avgMicros float64
	if err := row.Scan(&stats.Total, &stats.Found, &avgMicros); err != nil {
		return stats, fmt.Errorf("aggregating history: %w", err)
	}
	stats.AvgDuration = time.Duration(avgMicros) * time.Microsecond

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM resolutions GROUP BY source`)
	if err != nil {
		return stats, fmt.Errorf("aggregating sources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return stats, fmt.Errorf("scanning source row: %w", err)
		}
		stats.BySource[domain.ResolutionSource(source)] = count
	}
	return stats, rows.Err()
}

// Close releases the database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
