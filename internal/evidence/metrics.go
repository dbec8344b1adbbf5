package evidence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts evidence lifecycle operations.
type Metrics struct {
	DraftsCreated prometheus.Counter
	Sealed        *prometheus.CounterVec
	SealRejected  prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		DraftsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_evidence_drafts_created_total",
			Help: "Total number of evidence drafts created",
		}),
		Sealed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_evidence_sealed_total",
			Help: "Total number of seal operations by resulting ledger state",
		}, []string{"ledger_state"}),
		SealRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_evidence_seal_rejected_total",
			Help: "Total number of seal attempts rejected with validation violations",
		}),
	}
}
