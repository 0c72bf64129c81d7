package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupsTotal tracks source probes per resolution, labeled by the source
	// that answered and the outcome (found, not_found, error)
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollgate_lookups_total",
			Help: "Total number of source lookups during resolution",
		},
		[]string{"source", "outcome"},
	)

	// ResolutionDuration tracks end-to-end resolution latency per operation
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rollgate_resolution_duration_seconds",
			Help:    "Resolution latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// SubmissionsTotal tracks forwarded submissions per kind and outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollgate_submissions_total",
			Help: "Total number of transaction submissions",
		},
		[]string{"kind", "outcome"},
	)
)
