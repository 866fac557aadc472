package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SporesCreated      prometheus.Counter
	ValidationFailures prometheus.Counter
	QueryDuration      prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		SporesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sporemap_spores_created_total",
			Help: "Total number of spores persisted",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sporemap_submission_validation_failures_total",
			Help: "Total number of submissions rejected by validation",
		}),
		QueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sporemap_query_duration_seconds",
			Help:    "Latency of spore queries (select plus count)",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Methods are no-ops on a nil receiver so services can run without metrics
// wired (tests).

func (m *Metrics) IncrementSporesCreated() {
	if m == nil {
		return
	}
	m.SporesCreated.Inc()
}

func (m *Metrics) IncrementValidationFailures() {
	if m == nil {
		return
	}
	m.ValidationFailures.Inc()
}

func (m *Metrics) ObserveQueryDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.QueryDuration.Observe(d.Seconds())
}
