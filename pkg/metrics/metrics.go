// Package metrics exposes the Prometheus collectors for the batch runner.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// JobsTotal counts finished wallet jobs by terminal state.
	JobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "w3batch",
		Name:      "jobs_total",
		Help:      "Finished wallet jobs by terminal state.",
	}, []string{"state"})

	// JobsInFlight tracks jobs currently running.
	JobsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "w3batch",
		Name:      "jobs_in_flight",
		Help:      "Wallet jobs currently running.",
	})

	// RecordsFetched counts balance records produced by completed jobs.
	RecordsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "w3batch",
		Name:      "records_fetched_total",
		Help:      "Balance records produced by completed jobs.",
	})

	// BatchDuration observes whole-batch wall time per action.
	BatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "w3batch",
		Name:      "batch_duration_seconds",
		Help:      "Whole-batch execution time by action.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"action"})

	// CacheReads counts balance-cache lookups by result.
	CacheReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "w3batch",
		Name:      "cache_reads_total",
		Help:      "Balance cache lookups by result.",
	}, []string{"result"})
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(JobsTotal, JobsInFlight, RecordsFetched, BatchDuration, CacheReads)
}
