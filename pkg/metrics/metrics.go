// Package metrics provides Prometheus instrumentation for Quasar
// materializations: throughput counters, the degraded-value counter,
// latency histograms and an in-flight task gauge.
//
// The degraded-value counter exists because coercion silently maps
// unrecognized values to NaN; the table is still produced, but
// operators need a way to see how much precision was lost. Counters
// register automatically via promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsMaterialized counts rows converted, labeled by direction
	// (row_to_column, column_to_row).
	RowsMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quasar",
			Name:      "rows_materialized_total",
			Help:      "Total rows converted between representations",
		},
		[]string{"direction"},
	)

	// DegradedValues counts cells that coercion degraded to the NaN
	// sentinel instead of a real value.
	DegradedValues = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quasar",
			Name:      "degraded_values_total",
			Help:      "Cells degraded to NaN because the source value had no numeric mapping",
		},
	)

	// MaterializeDuration observes end-to-end materialization latency,
	// labeled by direction.
	MaterializeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quasar",
			Name:      "materialize_duration_seconds",
			Help:      "End-to-end materialization latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"direction"},
	)

	// ActiveTasks tracks currently running partition tasks.
	ActiveTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quasar",
			Name:      "active_partition_tasks",
			Help:      "Partition tasks currently executing",
		},
	)

	// SegmentBytes counts compressed bytes written to sealed segments.
	SegmentBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quasar",
			Name:      "segment_compressed_bytes_total",
			Help:      "Compressed bytes written when sealing segments",
		},
	)
)

// Timer measures one operation's duration for a histogram label.
type Timer struct {
	start     time.Time
	direction string
}

// NewTimer starts a timer for the given direction label.
func NewTimer(direction string) *Timer {
	return &Timer{start: time.Now(), direction: direction}
}

// Stop records the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	MaterializeDuration.WithLabelValues(t.direction).Observe(elapsed.Seconds())
	return elapsed
}
