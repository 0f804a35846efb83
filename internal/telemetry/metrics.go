// Package telemetry exposes Prometheus metrics for the search pipeline.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	BranchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "branch_failures_total",
			Help:      "Retrieval branch failures absorbed by graceful degradation",
		},
		[]string{"branch"}, // "semantic" / "keyword" / "graph"
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SnapshotBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Name:      "snapshot_build_duration_seconds",
			Help:      "Catalog snapshot build duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SnapshotProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hybridsearch",
			Name:      "snapshot_products",
			Help:      "Number of products in the current snapshot",
		},
	)
)

var registered bool

// Register registers all search metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(BranchFailuresTotal)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(SnapshotBuildDuration)
	prometheus.MustRegister(SnapshotProducts)
	registered = true
}

// ObserveSearch records one completed search request.
func ObserveSearch(mode string, status string, elapsed time.Duration) {
	SearchRequestsTotal.WithLabelValues(mode, status).Inc()
	SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordBranchFailure counts one absorbed branch failure.
func RecordBranchFailure(branch string) {
	BranchFailuresTotal.WithLabelValues(branch).Inc()
}

// RecordCacheResult counts one result cache lookup outcome.
func RecordCacheResult(hit bool) {
	if hit {
		ResultCacheTotal.WithLabelValues("hit").Inc()
	} else {
		ResultCacheTotal.WithLabelValues("miss").Inc()
	}
}
