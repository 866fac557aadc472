package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksAllowed prometheus.Counter
	ChecksDenied  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ChecksAllowed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sporemap_ratelimit_checks_allowed_total",
			Help: "Total number of submissions accepted by the rate limiter",
		}),
		ChecksDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sporemap_ratelimit_checks_denied_total",
			Help: "Total number of submissions denied by the rate limiter",
		}),
	}
}

// IncrementAllowed is a no-op on a nil receiver so the limiter can run
// without metrics wired (tests).
func (m *Metrics) IncrementAllowed() {
	if m == nil {
		return
	}
	m.ChecksAllowed.Inc()
}

func (m *Metrics) IncrementDenied() {
	if m == nil {
		return
	}
	m.ChecksDenied.Inc()
}
