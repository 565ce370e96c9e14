// Package telemetry reports hard failures to Sentry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"xav-address-service/internal/logx"
)

// SentryConfig configures error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	// Transport overrides the SDK transport; tests use it to capture events.
	Transport sentry.Transport
}

// Reporter captures errors that operators must see.
type Reporter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
}

// Nop drops every report.
type Nop struct{}

// Capture implements Reporter.
func (Nop) Capture(context.Context, error, map[string]string) {}

// SentryReporter sends errors through its own hub.
type SentryReporter struct {
	hub *sentry.Hub
}

// InitSentry builds a reporter and a cleanup that flushes pending events.
func InitSentry(cfg SentryConfig, logger logx.Logger) (Reporter, func(), error) {
	if cfg.DSN == "" {
		logger.Info("sentry disabled")
		return Nop{}, func() {}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  1.0,
		Transport:   cfg.Transport,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init sentry: %w", err)
	}
	hub := sentry.NewHub(client, sentry.NewScope())

	logger.Info("sentry initialized",
		logx.String("environment", cfg.Environment),
		logx.String("release", cfg.Release),
	)
	return &SentryReporter{hub: hub}, func() { hub.Flush(2 * time.Second) }, nil
}

// Capture implements Reporter.
func (r *SentryReporter) Capture(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = r.hub
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}
