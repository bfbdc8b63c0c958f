package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.IdentifiersTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "stringload_identifiers_total",
			Help: "Distinct Ensembl protein IDs found in the links file",
		},
	)

	r.RowsScannedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_rows_scanned_total",
			Help: "Data rows read per pipeline stage",
		},
		[]string{"stage"},
	)

	r.EdgesAcceptedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_edges_accepted_total",
			Help: "Edges written to the output table per cutoff",
		},
		[]string{"cutoff"},
	)

	r.DuplicateEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_duplicate_edges_total",
			Help: "Equal-score duplicate edges dropped per cutoff",
		},
		[]string{"cutoff"},
	)

	r.ConflictsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_attribute_conflicts_total",
			Help: "Conflicting duplicate attribute mappings recorded",
		},
		[]string{"kind"},
	)

	r.PassDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stringload_pass_duration_seconds",
			Help:    "Pipeline pass duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"stage"},
	)
}
