package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Validation holds the collectors of the address validation flow.
// A nil *Validation is valid and records nothing.
type Validation struct {
	outcomes *prometheus.CounterVec
	carrier  *prometheus.HistogramVec
}

// NewValidation creates the collectors and registers them on reg when reg is not nil.
func NewValidation(reg prometheus.Registerer) (*Validation, error) {
	m := &Validation{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xav_validations_total",
				Help: "Total number of address validations by outcome",
			},
			[]string{"outcome"},
		),
		carrier: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xav_carrier_request_duration_seconds",
				Help:    "Duration of carrier address validation calls.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10},
			},
			[]string{"result"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.outcomes, m.carrier} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOutcome counts one finished validation.
func (m *Validation) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// ObserveCarrierCall records the duration of one carrier call.
func (m *Validation) ObserveCarrierCall(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.carrier.WithLabelValues(result).Observe(d.Seconds())
}

// Outcomes exposes the outcome counter for tests.
func (m *Validation) Outcomes() *prometheus.CounterVec { return m.outcomes }

// CarrierDuration exposes the carrier histogram for tests.
func (m *Validation) CarrierDuration() *prometheus.HistogramVec { return m.carrier }
