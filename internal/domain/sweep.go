package domain

import "time"

// SweepStats holds statistics about one sweep over tracked content.
type SweepStats struct {
	SweepID   string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Published int
	Failures  []ItemFailure
	Duration  time.Duration
}

// ItemFailure describes why one content item failed during a sweep.
type ItemFailure struct {
	ContentID int64
	Platform  string
	Kind      string
	Err       error
}

// ItemResult is the outcome of a manual refresh of one content item.
type ItemResult struct {
	ContentID int64         `json:"contentId"`
	Sample    *MetricSample `json:"sample,omitempty"`
	Err       error         `json:"-"`
}

// SweepState is the persisted record of past sweeps for a scope.
type SweepState struct {
	ID            int64     `db:"id"`
	Scope         string    `db:"scope"`
	LastSweptAt   time.Time `db:"last_swept_at"`
	LastSucceeded int64     `db:"last_succeeded"`
	LastFailed    int64     `db:"last_failed"`
	TotalSamples  int64     `db:"total_samples"`
}
