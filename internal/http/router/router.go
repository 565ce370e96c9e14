package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xav-address-service/internal/http/handlers"
	obs "xav-address-service/internal/http/middleware"
	"xav-address-service/internal/logx"
)

const defaultRequestTimeout = 7 * time.Second

// Options tunes the router. Zero values are usable.
type Options struct {
	Logger         logx.Logger
	RequestTimeout time.Duration
	// RateLimit wraps POST /validate when set.
	RateLimit func(http.Handler) http.Handler
	// Metrics serves GET /metrics; defaults to the global prometheus registry.
	Metrics http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h *handlers.Handlers, addr *handlers.AddressHandler, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", opts.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}
		r.Post("/validate", addr.Validate)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
