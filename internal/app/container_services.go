package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"xav-address-service/internal/config"
	"xav-address-service/internal/diagnostics"
	xavgw "xav-address-service/internal/gateway/xav"
	"xav-address-service/internal/logx"
	"xav-address-service/internal/metrics"
	"xav-address-service/internal/service/xav"
	"xav-address-service/internal/telemetry"
)

// shutdownHook runs after the server has stopped.
type shutdownHook func()

type telemetryOut struct {
	dig.Out
	Reporter telemetry.Reporter
	Flush    shutdownHook
}

func newTelemetry(cfg *config.Config, logger logx.Logger) (telemetryOut, error) {
	rep, flush, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
	}, logger)
	if err != nil {
		return telemetryOut{}, err
	}
	return telemetryOut{Reporter: rep, Flush: flush}, nil
}

func registerTelemetry(container *dig.Container) error {
	return provideAll(container,
		newTelemetry,
		func(reg prometheus.Registerer) (*metrics.Validation, error) {
			return metrics.NewValidation(reg)
		},
	)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newCarrierClient,
		diagnostics.NewLatest,
		newDiagnosticsSink,
		newValidationService,
	)
}

func newCarrierClient(cfg *config.Config) (*xavgw.Client, error) {
	c := cfg.Carrier
	return xavgw.NewClient(xavgw.Config{
		Endpoint:  c.Endpoint,
		Operation: c.Operation,
		AccessKey: c.AccessKey,
		Username:  c.Username,
		Password:  c.Password,
		Timeout:   c.Timeout,
	})
}

// newDiagnosticsSink fans out to the configured sink and, when diagnostics
// and the debug listener are both on, to the in-memory copy it serves.
func newDiagnosticsSink(ctx context.Context, cfg *config.Config, logger logx.Logger, latest *diagnostics.Latest) (diagnostics.Sink, error) {
	primary, err := newPrimarySink(ctx, cfg.Debug, logger)
	if err != nil {
		return nil, err
	}
	if !cfg.Debug.Enabled || cfg.Debug.Addr == "" {
		return primary, nil
	}
	return diagnostics.Multi(primary, latest), nil
}

func newPrimarySink(ctx context.Context, d config.Debug, logger logx.Logger) (diagnostics.Sink, error) {
	if !d.Enabled {
		return diagnostics.Nop{}, nil
	}
	switch d.Sink {
	case "s3":
		sink, err := diagnostics.NewS3Sink(ctx, diagnostics.S3Config{
			Bucket:   d.S3Bucket,
			Key:      d.S3Key,
			Region:   d.S3Region,
			Endpoint: d.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("diagnostics enabled", logx.String("sink", "s3"), logx.String("bucket", d.S3Bucket), logx.String("key", d.S3Key))
		return sink, nil
	case "file", "":
		sink, err := diagnostics.NewFileSink(d.File)
		if err != nil {
			return nil, err
		}
		logger.Info("diagnostics enabled", logx.String("sink", "file"), logx.String("path", d.File))
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown diagnostics sink %q", d.Sink)
	}
}

type validationServiceIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Gateway  *xavgw.Client
	Sink     diagnostics.Sink
	Metrics  *metrics.Validation
	Reporter telemetry.Reporter
}

func newValidationService(in validationServiceIn) *xav.Service {
	c := in.Config.Carrier
	return xav.NewService(in.Gateway, xav.Config{
		StreetLevel: c.StreetLevel,
		Timeout:     c.Timeout,
		Countries:   c.Countries,
	}, in.Logger,
		xav.WithSink(in.Sink),
		xav.WithMetrics(in.Metrics),
		xav.WithReporter(in.Reporter),
	)
}
