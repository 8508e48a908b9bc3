// Package metrics declares the Prometheus collectors exported by the
// daemon. Registration happens at init via promauto; exposure is gated by
// the daemon's optional metrics listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job metrics
var (
	JobsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renamaster_jobs_received_total",
			Help: "Inbound media events accepted for processing",
		},
	)

	JobsDeduped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renamaster_jobs_deduped_total",
			Help: "Inbound events dropped by the debounce window",
		},
	)

	JobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renamaster_jobs_completed_total",
			Help: "Jobs reaching a terminal state",
		},
		[]string{"outcome"}, // uploaded | failed | no_template
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "renamaster_stage_duration_seconds",
			Help:    "Wall time spent per pipeline stage",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"stage"}, // download | metadata | thumbnail | upload
	)

	UploadRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renamaster_upload_retries_total",
			Help: "Upload attempts retried, by trigger",
		},
		[]string{"reason"}, // rate_limit | timeout | error
	)

	MetadataRewriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renamaster_metadata_rewrite_failures_total",
			Help: "Muxer failures degraded to untagged uploads",
		},
	)
)
