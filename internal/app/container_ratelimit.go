package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"xav-address-service/internal/config"
	"xav-address-service/internal/http/middleware/ratelimit"
	"xav-address-service/internal/logx"
	"xav-address-service/internal/metrics"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewKeyedLimiter(clock, ratelimit.Config{
		Rate:  rl.Rate,
		Burst: rl.Burst,
		TTL:   rl.TTL,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

func newRateLimitExceededTotal(reg prometheus.Registerer) (prometheus.Counter, error) {
	c := metrics.NewRateLimitExceededTotal()
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}
