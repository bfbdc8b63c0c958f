package metrics

import (
	"strconv"
	"time"
)

// RecordDownload records one source file download attempt
func (r *Registry) RecordDownload(file, status string, duration time.Duration) {
	r.DownloadsTotal.WithLabelValues(file, status).Inc()
	r.DownloadDuration.Observe(duration.Seconds())
}

// RecordStage records rows scanned and the duration of a pipeline stage
func (r *Registry) RecordStage(stage string, rows int, duration time.Duration) {
	r.RowsScannedTotal.WithLabelValues(stage).Add(float64(rows))
	r.PassDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordFilterPass records the outcome of one cutoff's filter pass
func (r *Registry) RecordFilterPass(cutoff float64, accepted, duplicates int, duration time.Duration) {
	label := formatCutoff(cutoff)
	r.EdgesAcceptedTotal.WithLabelValues(label).Add(float64(accepted))
	r.DuplicateEdgesTotal.WithLabelValues(label).Add(float64(duplicates))
	r.PassDuration.WithLabelValues("filter").Observe(duration.Seconds())
}

// RecordIdentifiers records the size of the identifier table
func (r *Registry) RecordIdentifiers(n int) {
	r.IdentifiersTotal.Set(float64(n))
}

// RecordConflicts records attribute conflicts by kind ("display_name" or "represents")
func (r *Registry) RecordConflicts(kind string, n int) {
	r.ConflictsTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordUpload records one network upload attempt
func (r *Registry) RecordUpload(status string) {
	r.UploadsTotal.WithLabelValues(status).Inc()
}

// formatCutoff renders a cutoff the way it appears in network names, e.g. "0.7"
func formatCutoff(cutoff float64) string {
	return strconv.FormatFloat(cutoff, 'g', -1, 64)
}
