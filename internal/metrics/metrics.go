// Package metrics holds the Prometheus collectors for ingestion runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_ingest_files_total",
		Help: "Source files seen by ingestion, by pipeline and status.",
	}, []string{"pipeline", "status"})

	RowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "growth_ingest_rows_total",
		Help: "Source rows seen by ingestion, by pipeline and outcome.",
	}, []string{"pipeline", "outcome"})

	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "growth_refresh_duration_seconds",
		Help:    "Wall time of a full ingestion refresh.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pipeline"})
)

// ObserveFile records one processed source file.
func ObserveFile(pipeline, status string, accepted, rejected int) {
	FilesTotal.WithLabelValues(pipeline, status).Inc()
	if accepted > 0 {
		RowsTotal.WithLabelValues(pipeline, "accepted").Add(float64(accepted))
	}
	if rejected > 0 {
		RowsTotal.WithLabelValues(pipeline, "rejected").Add(float64(rejected))
	}
}
