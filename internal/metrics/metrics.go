// Package metrics exposes Prometheus instrumentation for the store core:
// per-operation counters/latency histograms and cache hit/miss counts.
// Collection is opt-in: Enable must be called before any Observe* call
// records anything, so an embedder that never calls Enable pays only a
// single atomic load per call.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enabled  atomic.Bool
	registry = prometheus.NewRegistry()

	operationsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "liststore_operations_total",
			Help: "Total number of store operations by component, operation, and outcome",
		},
		[]string{"component", "operation", "status"},
	)

	operationDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "liststore_operation_duration_milliseconds",
			Help: "Duration of store operations in milliseconds",
			Buckets: []float64{
				0.5, 1, 5, 10, 50, 100, 500, 1000, 5000,
			},
		},
		[]string{"component", "operation"},
	)

	cacheResultsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "liststore_cache_results_total",
			Help: "Total cache lookups by component and result",
		},
		[]string{"component", "result"}, // result: "hit", "miss"
	)
)

// Enable turns on metrics collection. Safe to call more than once.
func Enable() { enabled.Store(true) }

// IsEnabled reports whether metrics collection is active.
func IsEnabled() bool { return enabled.Load() }

// Registry returns the registry backing every collector here, for embedders
// that want to mount it under a promhttp handler.
func Registry() *prometheus.Registry { return registry }

// ObserveOperation records one call to component/operation, its outcome,
// and how long it took. No-op when metrics are disabled.
func ObserveOperation(component, operation string, start time.Time, err error) {
	if !IsEnabled() {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(component, operation, status).Inc()
	operationDuration.WithLabelValues(component, operation).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// ObserveCacheResult records a cache hit or miss for component. No-op when
// metrics are disabled.
func ObserveCacheResult(component string, hit bool) {
	if !IsEnabled() {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheResultsTotal.WithLabelValues(component, result).Inc()
}
