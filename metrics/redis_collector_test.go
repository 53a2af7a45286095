package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/marcelsud/webhook-relay/webhook"
	wbredis "github.com/marcelsud/webhook-relay/webhook/redis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector(t *testing.T) (*RedisCollector, *wbredis.Sink) {
	t.Helper()
	mr := miniredis.RunT(t)
	sink, err := wbredis.NewSink(mr.Addr(), "", 0, 0, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close(context.Background()) })
	return NewRedisCollector(sink), sink
}

func publish(t *testing.T, sink *wbredis.Sink, id, user string) {
	t.Helper()
	require.NoError(t, sink.Publish(context.Background(), webhook.Event{
		ID:         id,
		ForUserID:  user,
		Payload:    []byte(`{}`),
		ReceivedAt: time.Now(),
	}))
}

func TestRedisCollector_Collect(t *testing.T) {
	t.Run("empty sink", func(t *testing.T) {
		collector, _ := newCollector(t)

		m, err := collector.Collect(context.Background())
		require.NoError(t, err)
		assert.Empty(t, m.StreamLengths)
		assert.Zero(t, m.ActiveSubjects)
		assert.False(t, m.Timestamp.IsZero())
	})

	t.Run("counts events per subject", func(t *testing.T) {
		collector, sink := newCollector(t)
		publish(t, sink, "e1", "1")
		publish(t, sink, "e2", "1")
		publish(t, sink, "e3", "")

		m, err := collector.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"1": 2, webhook.UnknownSubject: 1}, m.StreamLengths)
		assert.Equal(t, int64(2), m.ActiveSubjects)
	})
}
