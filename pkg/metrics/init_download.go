package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDownloadMetrics() {
	r.DownloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringload_downloads_total",
			Help: "Total number of source file downloads",
		},
		[]string{"file", "status"},
	)

	r.DownloadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stringload_download_duration_seconds",
			Help:    "Source file download duration in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800},
		},
	)
}
