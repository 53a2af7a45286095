package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

/* Redis implementation of webhook.EventSink
 * Appends every accepted event to a per-subject stream capped with an approximate MAXLEN
 * and announces it on a pub/sub channel for live listeners
 */

const (
	streamPrefix  = "events:stream"   // Stream naming: events:stream:{subject}
	subjectsKey   = "events:subjects" // Set of subjects that own a stream
	Channel       = "events"          // Pub/sub channel carrying the JSON event
	DefaultMaxLen = 10000
)

type Sink struct {
	client *redis.Client
	maxLen int64
	logger zerolog.Logger
}

// NewSink creates a new Redis event sink
func NewSink(addr, password string, db int, maxLen int64, logger zerolog.Logger) (*Sink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewSinkFromClient(client, maxLen, logger), nil
}

// NewSinkFromClient wraps an existing client
func NewSinkFromClient(client *redis.Client, maxLen int64, logger zerolog.Logger) *Sink {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Sink{
		client: client,
		maxLen: maxLen,
		logger: logger,
	}
}

// Publish appends the event to its subject stream and announces it in one transaction
func (s *Sink) Publish(ctx context.Context, ev webhook.Event) error {
	subject := ev.Subject()

	announcement, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	activity, err := json.Marshal(SubjectActivity{
		Subject:     subject,
		LastEventID: ev.ID,
		LastSeen:    ev.ReceivedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: StreamKey(subject),
			MaxLen: s.maxLen,
			Approx: true,
			Values: streamValues(ev),
		})
		pipe.SAdd(ctx, subjectsKey, subject)
		pipe.Set(ctx, activityKey(subject), activity, ActivityTTL)
		pipe.Publish(ctx, Channel, announcement)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publishing event to stream: %w", err)
	}

	s.logger.Debug().
		Str("event_id", ev.ID).
		Str("subject", subject).
		Msg("event appended to stream")
	return nil
}

// Recent returns up to count events of a for_user_id, newest first
func (s *Sink) Recent(ctx context.Context, forUserID string, count int64) ([]webhook.Event, error) {
	msgs, err := s.client.XRevRangeN(ctx, StreamKey(webhook.SubjectOf(forUserID)), "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}

	events := make([]webhook.Event, 0, len(msgs))
	for _, msg := range msgs {
		events = append(events, eventFromValues(msg.Values))
	}
	return events, nil
}

// StreamLengths returns the number of retained events per subject
func (s *Sink) StreamLengths(ctx context.Context) (map[string]int64, error) {
	subjects, err := s.client.SMembers(ctx, subjectsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	lengths := make(map[string]int64, len(subjects))
	if len(subjects) == 0 {
		return lengths, nil
	}

	// Use pipeline for efficient batch operations
	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(subjects))
	for i, subject := range subjects {
		cmds[i] = pipe.XLen(ctx, StreamKey(subject))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("executing pipeline: %w", err)
	}

	for i, cmd := range cmds {
		length, err := cmd.Result()
		if err != nil {
			// Continue even if one stream fails
			s.logger.Warn().Err(err).Str("subject", subjects[i]).Msg("reading stream length")
			continue
		}
		lengths[subjects[i]] = length
	}
	return lengths, nil
}

// Close closes the Redis connection
func (s *Sink) Close(ctx context.Context) error {
	return s.client.Close()
}

// Client returns the underlying Redis client
func (s *Sink) Client() *redis.Client {
	return s.client
}

// StreamKey returns the stream holding the events of a subject as returned by webhook.SubjectOf
func StreamKey(subject string) string {
	return fmt.Sprintf("%s:%s", streamPrefix, subject)
}

func streamValues(ev webhook.Event) map[string]interface{} {
	return map[string]interface{}{
		"event_id":          ev.ID,
		"for_user_id":       ev.ForUserID,
		"kinds":             strings.Join(ev.Kinds, ","),
		"payload":           ev.Payload,
		"verified":          strconv.FormatBool(ev.Verified),
		"signature_present": strconv.FormatBool(ev.SignaturePresent),
		"received_at":       ev.ReceivedAt.UTC().Format(time.RFC3339Nano),
	}
}

func eventFromValues(values map[string]interface{}) webhook.Event {
	str := func(key string) string {
		v, _ := values[key].(string)
		return v
	}

	ev := webhook.Event{
		ID:        str("event_id"),
		ForUserID: str("for_user_id"),
		Payload:   []byte(str("payload")),
	}
	if kinds := str("kinds"); kinds != "" {
		ev.Kinds = strings.Split(kinds, ",")
	}
	ev.Verified, _ = strconv.ParseBool(str("verified"))
	ev.SignaturePresent, _ = strconv.ParseBool(str("signature_present"))
	ev.ReceivedAt, _ = time.Parse(time.RFC3339Nano, str("received_at"))
	return ev
}
