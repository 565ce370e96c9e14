// Package xav turns form input into carrier address validations and shapes
// the result for the calling form.
package xav

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"xav-address-service/internal/diagnostics"
	"xav-address-service/internal/domain"
	"xav-address-service/internal/logx"
	"xav-address-service/internal/metrics"
	"xav-address-service/internal/telemetry"
)

const defaultTimeout = 5 * time.Second

// Config holds the settings the validator needs from deployment configuration.
type Config struct {
	StreetLevel bool
	Timeout     time.Duration
	Countries   []string
}

// Option customizes a Service.
type Option func(*Service)

// WithSink records every raw carrier response to sink.
func WithSink(sink diagnostics.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithMetrics enables prometheus collectors.
func WithMetrics(m *metrics.Validation) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReporter sends hard failures to an error tracker.
func WithReporter(r telemetry.Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// Service validates addresses against the carrier.
type Service struct {
	gateway          carrierGateway
	logger           logx.Logger
	validate         *validator.Validate
	countries        map[domain.CountryCode]struct{}
	streetLevel      bool
	operationTimeout time.Duration

	sink     diagnostics.Sink
	metrics  *metrics.Validation
	reporter telemetry.Reporter
}

// NewService creates and configures a validation Service.
func NewService(gw carrierGateway, cfg Config, logger logx.Logger, opts ...Option) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logx.Nop()
	}
	countries := make(map[domain.CountryCode]struct{}, len(cfg.Countries))
	for _, c := range cfg.Countries {
		countries[domain.CountryCode(strings.ToUpper(strings.TrimSpace(c)))] = struct{}{}
	}
	if len(countries) == 0 {
		for _, c := range []domain.CountryCode{domain.CountryUS, domain.CountryCA, domain.CountryPR} {
			countries[c] = struct{}{}
		}
	}

	s := &Service{
		gateway:          gw,
		logger:           logger,
		countries:        countries,
		streetLevel:      cfg.StreetLevel,
		operationTimeout: cfg.Timeout,
		sink:             diagnostics.Nop{},
		reporter:         telemetry.Nop{},
	}
	s.validate = newValidator(s.supported)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) supported(code string) bool {
	_, ok := s.countries[domain.CountryCode(code)]
	return ok
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}
