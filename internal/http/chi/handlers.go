package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/router"
	"github.com/rs/zerolog"
)

// RequestTimeout bounds a whole request, above the upstream call timeout
const RequestTimeout = 30 * time.Second

// Handlers mounts health, metrics and the relay router on a chi mux; metricsHandler may be nil
func Handlers(ctx context.Context, rt *router.Router, logger zerolog.Logger, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	// Health check
	health := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}
	r.Get("/health", health)
	r.Get("/api/health", health)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Handle("/*", relay(rt))

	return r
}
