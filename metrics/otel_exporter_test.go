package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, oe *OTelExporter) string {
	t.Helper()
	srv := httptest.NewServer(oe.ServeHTTP())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestOTelExporter_WithoutCollector(t *testing.T) {
	oe, err := NewOTelExporter(nil)
	require.NoError(t, err)
	defer oe.Shutdown(context.Background())

	oe.RecordRequest(context.Background(), "webhooks", http.StatusOK)
	oe.UpstreamCall(context.Background(), "list_webhooks", http.StatusOK, 120*time.Millisecond)

	body := scrape(t, oe)
	assert.Contains(t, body, "relay_requests")
	assert.Contains(t, body, `route="webhooks"`)
	assert.Contains(t, body, "relay_upstream_duration")
	assert.Contains(t, body, `operation="list_webhooks"`)
	assert.NotContains(t, body, "relay_events_stream_length")
}

func TestOTelExporter_WithRedisCollector(t *testing.T) {
	collector, sink := newCollector(t)
	publish(t, sink, "e1", "123")

	oe, err := NewOTelExporter(collector)
	require.NoError(t, err)
	defer oe.Shutdown(context.Background())

	body := scrape(t, oe)
	assert.Contains(t, body, "relay_events_stream_length")
	assert.Contains(t, body, `subject="123"`)
	assert.Contains(t, body, "relay_events_subjects_active")
}

func TestOTelExporter_IndependentRegistries(t *testing.T) {
	first, err := NewOTelExporter(nil)
	require.NoError(t, err)
	defer first.Shutdown(context.Background())

	second, err := NewOTelExporter(nil)
	require.NoError(t, err)
	defer second.Shutdown(context.Background())
}
