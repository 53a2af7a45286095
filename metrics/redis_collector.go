package metrics

import (
	"context"
	"fmt"
	"time"

	wbredis "github.com/marcelsud/webhook-relay/webhook/redis"
)

// RedisCollector implements the Collector interface for the Redis event sink
type RedisCollector struct {
	sink *wbredis.Sink
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(sink *wbredis.Sink) *RedisCollector {
	return &RedisCollector{
		sink: sink,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	lengths, err := c.GetStreamLengths(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting stream lengths: %w", err)
	}

	active, err := c.GetActiveSubjects(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active subjects: %w", err)
	}

	return Metrics{
		StreamLengths:  lengths,
		ActiveSubjects: active,
		Timestamp:      time.Now(),
	}, nil
}

// GetStreamLengths returns the number of retained events in each subject stream
func (c *RedisCollector) GetStreamLengths(ctx context.Context) (map[string]int64, error) {
	return c.sink.StreamLengths(ctx)
}

// GetActiveSubjects counts subjects whose activity key has not expired
func (c *RedisCollector) GetActiveSubjects(ctx context.Context) (int64, error) {
	subjects, err := c.sink.ActiveSubjects(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(subjects)), nil
}
