package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initUploadMetrics() {
	r.UploadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_uploads_total",
			Help: "Network upload attempts by outcome",
		},
		[]string{"status"},
	)
}
