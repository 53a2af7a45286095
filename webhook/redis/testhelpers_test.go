//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"

	wbredis "github.com/marcelsud/webhook-relay/webhook/redis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	rc := &RedisContainer{
		Container: redisContainer,
		Addr:      strings.TrimPrefix(addr, "redis://"),
	}

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return rc, cleanup
}

// CreateTestSink creates a Redis sink connected to the test container
func CreateTestSink(t *testing.T, addr string, maxLen int64) *wbredis.Sink {
	t.Helper()

	sink, err := wbredis.NewSink(addr, "", 0, maxLen, zerolog.Nop())
	require.NoError(t, err, "failed to create Redis sink")

	return sink
}
