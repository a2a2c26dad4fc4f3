package domain

import "time"

// ResolutionSource records which tier produced a resolution result.
type ResolutionSource string

// Resolution sources, from cheapest to most expensive.
const (
	SourceMemory     ResolutionSource = "memory"
	SourceKeyword    ResolutionSource = "keyword"
	SourcePersistent ResolutionSource = "persistent"
	SourceFetched    ResolutionSource = "fetched"
	SourceDiscovered ResolutionSource = "discovered"
	SourceSynthetic  ResolutionSource = "synthetic"
	SourceNone       ResolutionSource = "none"
)

// String returns the string representation.
func (s ResolutionSource) String() string {
	return string(s)
}

// ResolutionRecord is one resolve call's outcome, persisted for usage
// statistics.
type ResolutionRecord struct {
	// ID uniquely identifies the record.
	ID string

	// Name, Version, Library echo the normalized query.
	Name    string
	Version string
	Library string

	// Found reports whether an entry was resolved.
	Found bool

	// Source is the tier that answered.
	Source ResolutionSource

	// Duration is the wall time the resolution took.
	Duration time.Duration

	// CreatedAt is when the resolution ran.
	CreatedAt time.Time
}

// UsageStats aggregates the resolution history.
type UsageStats struct {
	// Total is the number of recorded resolutions.
	Total int64 `json:"total"`

	// Found is how many produced an entry.
	Found int64 `json:"found"`

	// AvgDuration is the mean resolution time.
	AvgDuration time.Duration `json:"avg_duration"`

	// BySource counts resolutions per answering tier.
	BySource map[ResolutionSource]int64 `json:"by_source"`
}

// HitRate returns the fraction of resolutions that found an entry.
func (s UsageStats) HitRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Found) / float64(s.Total)
}
