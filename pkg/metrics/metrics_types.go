package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the loader
type Registry struct {
	// Download metrics
	DownloadsTotal   *prometheus.CounterVec
	DownloadDuration prometheus.Histogram

	// Pipeline metrics
	IdentifiersTotal     prometheus.Gauge
	RowsScannedTotal     *prometheus.CounterVec
	EdgesAcceptedTotal   *prometheus.CounterVec
	DuplicateEdgesTotal  *prometheus.CounterVec
	ConflictsTotal       *prometheus.CounterVec
	PassDuration         *prometheus.HistogramVec

	// Upload metrics
	UploadsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initDownloadMetrics()
	r.initPipelineMetrics()
	r.initUploadMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
