// Package nats publishes accepted events on NATS subjects.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubjectPrefix is prepended to the event subject
const DefaultSubjectPrefix = "webhook.events"

// Publisher is the part of *nats.Conn the sink needs
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Config holds NATS connection settings.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name is the client name for connection identification.
	Name string

	// SubjectPrefix is prepended to every subject, e.g. "webhook.events".
	SubjectPrefix string

	// MaxReconnects is the maximum number of reconnection attempts.
	// Use -1 for infinite reconnects.
	MaxReconnects int

	// ReconnectWait is the time to wait between reconnection attempts.
	ReconnectWait time.Duration

	// Timeout is the connection timeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "webhook-relay",
		SubjectPrefix: DefaultSubjectPrefix,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// Sink implements webhook.EventSink on top of a NATS connection.
type Sink struct {
	publisher Publisher
	conn      *nats.Conn
	prefix    string
	logger    zerolog.Logger
}

// Connect dials NATS and returns a sink owning the connection.
func Connect(cfg Config, logger zerolog.Logger) (*Sink, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	sink := NewSink(conn, cfg.SubjectPrefix, logger)
	sink.conn = conn
	return sink, nil
}

// NewSink creates a sink on an existing publisher; an empty prefix means DefaultSubjectPrefix.
func NewSink(publisher Publisher, prefix string, logger zerolog.Logger) *Sink {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Sink{
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
	}
}

// Subject returns the NATS subject an event is published on.
func (s *Sink) Subject(ev webhook.Event) string {
	return s.prefix + "." + ev.Subject()
}

// Publish sends the event as JSON with its id as the dedupe header.
func (s *Sink) Publish(ctx context.Context, ev webhook.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: s.Subject(ev),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(nats.MsgIdHdr, ev.ID)
	msg.Header.Set("X-Event-Verified", strconv.FormatBool(ev.Verified))
	if len(ev.Kinds) > 0 {
		msg.Header.Set("X-Event-Kinds", strings.Join(ev.Kinds, ","))
	}

	if err := s.publisher.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", msg.Subject, err)
	}

	s.logger.Debug().
		Str("event_id", ev.ID).
		Str("subject", msg.Subject).
		Msg("event published")
	return nil
}

// Close drains the connection when the sink owns one.
func (s *Sink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Drain()
}
