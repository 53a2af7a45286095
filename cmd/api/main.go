package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/internal/http/chi"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/router"
	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/memory"
	wbnats "github.com/marcelsud/webhook-relay/webhook/nats"
	wbredis "github.com/marcelsud/webhook-relay/webhook/redis"
	"github.com/marcelsud/webhook-relay/webhook/xapi"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* Wiring only: config, logger, provider and sink selection, HTTP server
 * Imports go one way, down: cmd imports the relay packages, never the reverse
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}

	logger := httplog.NewLogger("webhook-relay", httplog.Options{
		JSON:     true,
		LogLevel: cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		logger.Error().Err(err).Msg("loading time zone")
		return
	}
	creds := config.NewCredentials(nil)

	sink, collector, closeSink, err := newSink(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Str("sink", cfg.EventSink).Msg("creating event sink")
		return
	}
	defer closeSink()

	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())

	provider, err := newProvider(cfg, creds, exporter, logger)
	if err != nil {
		logger.Error().Err(err).Str("provider", cfg.Provider).Msg("creating provider")
		return
	}

	s := webhook.NewService(provider, sink, creds, loc, logger)
	rt := router.New(s, cfg.CallbackPath, logger)
	rt.Recorder = exporter

	r := chi.Handlers(ctx, rt, logger, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().
		Str("port", cfg.Port).
		Str("provider", cfg.Provider).
		Str("sink", cfg.SinkKind().String()).
		Str("callback_path", cfg.CallbackPath).
		Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving HTTP")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
		return
	}
}

// newSink returns the configured sink, its metrics collector (nil when it keeps no state) and a closer
func newSink(cfg *config.Config, logger zerolog.Logger) (webhook.EventSink, metrics.Collector, func(), error) {
	switch cfg.SinkKind() {
	case webhook.RedisSinkKind:
		sink, err := wbredis.NewSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisStreamMaxLen, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() { _ = sink.Close(context.Background()) }
		return sink, metrics.NewRedisCollector(sink), closer, nil
	case webhook.NATSSinkKind:
		natsCfg := wbnats.DefaultConfig()
		natsCfg.URL = cfg.NATSURL
		natsCfg.SubjectPrefix = cfg.NATSSubjectPrefix
		sink, err := wbnats.Connect(natsCfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return sink, nil, func() { _ = sink.Close() }, nil
	default:
		return webhook.NewNoopSink(logger), nil, func() {}, nil
	}
}

func newProvider(cfg *config.Config, creds webhook.Credentials, exporter *metrics.OTelExporter, logger zerolog.Logger) (webhook.Provider, error) {
	if cfg.Provider == config.ProviderMemory {
		fixtures, err := loadFixtures(cfg.FixturesFile)
		if err != nil {
			return nil, err
		}
		return memory.NewProvider(fixtures), nil
	}

	client := xapi.NewClient(cfg.XAPIBaseURL, creds, cfg.UpstreamTimeout(), logger)
	client.Observer = exporter
	return client, nil
}

func loadFixtures(path string) (*memory.Fixtures, error) {
	if path == "" {
		return memory.DefaultFixtures()
	}
	return memory.LoadFixtures(path)
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
