package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the solve-pipeline instrumentation.
type Metrics struct {
	SolvesTotal   *prometheus.CounterVec
	SolveDuration prometheus.Histogram
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dietlp",
			Name:      "solves_total",
			Help:      "Number of solve requests by outcome status.",
		}, []string{"status"}),
		SolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dietlp",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of the build-solve-explain pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}
