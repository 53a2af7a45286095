package webhook

import (
	"context"

	"github.com/rs/zerolog"
)

// EventSink publishes accepted events to subscribers
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}

// NoopSink only logs the event; it stands in for real-time fan-out
type NoopSink struct {
	Logger zerolog.Logger
}

// NewNoopSink creates a sink that logs and discards events
func NewNoopSink(logger zerolog.Logger) *NoopSink {
	return &NoopSink{Logger: logger}
}

// Publish logs the event and returns nil
func (s *NoopSink) Publish(ctx context.Context, event Event) error {
	s.Logger.Debug().
		Str("event_id", event.ID).
		Str("for_user_id", event.ForUserID).
		Strs("kinds", event.Kinds).
		Bool("verified", event.Verified).
		Msg("event broadcast skipped")
	return nil
}
