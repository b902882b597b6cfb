package personalization

import "github.com/prometheus/client_golang/prometheus"

var (
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "personalization_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	BreakerRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "personalization_breaker_rejections_total",
			Help: "Profile reads rejected by an open circuit breaker",
		},
	)
)

func init() {
	prometheus.MustRegister(BreakerState, BreakerRejectionsTotal)
}
