package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	collector     Collector

	// OTel meters and instruments
	meter               metric.Meter
	requestCounter      metric.Int64Counter
	upstreamDuration    metric.Float64Histogram
	streamLengthGauge   metric.Int64ObservableGauge
	activeSubjectsGauge metric.Int64ObservableGauge
}

/* NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
 * collector may be nil when the event sink keeps no state to observe
 */
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := prometheus.NewRegistry()

	// Create Prometheus exporter
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"webhook-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Requests answered by the router (per route and status)
	oe.requestCounter, err = oe.meter.Int64Counter(
		"relay.requests",
		metric.WithDescription("Number of requests answered per route and status"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	// Provider round trips (per operation and status)
	oe.upstreamDuration, err = oe.meter.Float64Histogram(
		"relay.upstream.duration",
		metric.WithDescription("Duration of provider API calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating upstream duration histogram: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	// Stream length gauge (per subject)
	oe.streamLengthGauge, err = oe.meter.Int64ObservableGauge(
		"relay.events.stream.length",
		metric.WithDescription("Number of retained events per subject stream"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeStreamLengths),
	)
	if err != nil {
		return fmt.Errorf("creating stream length gauge: %w", err)
	}

	// Active subjects gauge
	oe.activeSubjectsGauge, err = oe.meter.Int64ObservableGauge(
		"relay.events.subjects.active",
		metric.WithDescription("Number of subjects that received an event in the last hour"),
		metric.WithUnit("{subjects}"),
		metric.WithInt64Callback(oe.observeActiveSubjects),
	)
	if err != nil {
		return fmt.Errorf("creating active subjects gauge: %w", err)
	}

	return nil
}

// RecordRequest counts one answered request
func (oe *OTelExporter) RecordRequest(ctx context.Context, route string, status int) {
	oe.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	))
}

// UpstreamCall records the duration of one provider call; status 0 means no response
func (oe *OTelExporter) UpstreamCall(ctx context.Context, operation string, status int, elapsed time.Duration) {
	oe.upstreamDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("http.status_code", strconv.Itoa(status)),
	))
}

// observeStreamLengths is a callback that reports stream lengths
func (oe *OTelExporter) observeStreamLengths(ctx context.Context, observer metric.Int64Observer) error {
	lengths, err := oe.collector.GetStreamLengths(ctx)
	if err != nil {
		return err
	}

	for subject, length := range lengths {
		observer.Observe(length, metric.WithAttributes(
			attribute.String("subject", subject),
		))
	}

	return nil
}

// observeActiveSubjects is a callback that reports the number of active subjects
func (oe *OTelExporter) observeActiveSubjects(ctx context.Context, observer metric.Int64Observer) error {
	active, err := oe.collector.GetActiveSubjects(ctx)
	if err != nil {
		return err
	}

	observer.Observe(active)
	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
