package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the event sink.
type Metrics struct {
	// StreamLengths maps a subject (for_user_id) to the number of retained events
	StreamLengths map[string]int64 `json:"stream_lengths"`

	// ActiveSubjects is the number of subjects that received an event recently
	ActiveSubjects int64 `json:"active_subjects"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the event sink.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStreamLengths returns the number of retained events per subject
	GetStreamLengths(ctx context.Context) (map[string]int64, error)

	// GetActiveSubjects returns how many subjects received an event recently
	GetActiveSubjects(ctx context.Context) (int64, error)
}
