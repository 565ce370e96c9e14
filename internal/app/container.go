package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"xav-address-service/internal/config"
	"xav-address-service/internal/diagnostics"
	"xav-address-service/internal/http/debugserver"
	"xav-address-service/internal/http/handlers"
	"xav-address-service/internal/http/middleware/ratelimit"
	"xav-address-service/internal/http/router"
	"xav-address-service/internal/logx"
)

// requestSlack is added to the carrier timeout to bound a whole request.
const requestSlack = 2 * time.Second

// debugServer wraps the optional pprof listener; Server is nil when disabled.
type debugServer struct {
	*http.Server
}

func newDebugServer(cfg *config.Config, latest *diagnostics.Latest) debugServer {
	d := cfg.Debug
	if d.Addr == "" {
		return debugServer{}
	}
	return debugServer{Server: &http.Server{
		Addr:              d.Addr,
		Handler:           debugserver.Handler(debugserver.Config{User: d.User, Pass: d.Pass}, latest),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
	logOutput  io.Writer
	registry   *prometheus.Registry
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
		logOutput:  os.Stdout,
	}
}

// WithConfigLoader replaces config.Load.
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// WithLogOutput sets where the process logger writes.
func (b *ContainerBuilder) WithLogOutput(w io.Writer) *ContainerBuilder {
	if w != nil {
		b.logOutput = w
	}
	return b
}

// WithRegistry registers collectors on reg instead of the global registry.
func (b *ContainerBuilder) WithRegistry(reg *prometheus.Registry) *ContainerBuilder {
	b.registry = reg
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerTelemetry(container); err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, b *ContainerBuilder) error {
	registerer := prometheus.Registerer(prometheus.DefaultRegisterer)
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if b.registry != nil {
		registerer, gatherer = b.registry, b.registry
	}
	return provideAll(container,
		func() context.Context { return ctx },
		b.loadConfig,
		func(cfg *config.Config) logx.Logger { return NewLogger(cfg.Log, b.logOutput) },
		func() prometheus.Registerer { return registerer },
		func() prometheus.Gatherer { return gatherer },
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		requestTimeout := cfg.Carrier.Timeout + requestSlack
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      requestTimeout + 5*time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerOptions := func(
		cfg *config.Config,
		logger logx.Logger,
		gatherer prometheus.Gatherer,
		rl *ratelimit.Middleware,
	) router.Options {
		return router.Options{
			Logger:         logger,
			RequestTimeout: cfg.Carrier.Timeout + requestSlack,
			RateLimit:      rl.Handler(),
			Metrics:        promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		}
	}
	if err := container.Provide(newRateLimitExceededTotal, dig.Name("rate_limit_exceeded_total")); err != nil {
		return fmt.Errorf("provide rate limit counter: %w", err)
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAddressUsecase,
		handlers.NewAddressHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerOptions,
		router.New,
		serverProvider,
		newDebugServer,
	)
}
