package readiness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts evaluations and tracks their latency.
type Metrics struct {
	Evaluations       *prometheus.CounterVec
	EvaluationSeconds prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_readiness_evaluations_total",
			Help: "Total number of readiness evaluations by resulting status",
		}, []string{"status"}),
		EvaluationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritas_readiness_evaluation_duration_seconds",
			Help:    "Wall-clock duration of readiness evaluations",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
