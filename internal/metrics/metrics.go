// Package metrics exposes Prometheus collectors for supply operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts supply operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supply_operations_total",
			Help: "Total number of supply operations by operation and result",
		},
		[]string{"op", "result"},
	)

	// ItemsExhaustedTotal counts items retired by ReplaceSlot.
	ItemsExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supply_items_exhausted_total",
			Help: "Total number of items moved to the exhausted set",
		},
	)

	// Containers tracks the size of market, pool and exhausted.
	Containers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "supply_container_items",
			Help: "Current number of items per supply container",
		},
		[]string{"container"},
	)

	// HistoryDepth tracks the undo stack depth.
	HistoryDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "supply_history_depth",
			Help: "Current undo history depth",
		},
	)

	// JournalFlushes counts journal flushes by outcome.
	JournalFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supply_journal_flushes_total",
			Help: "Total number of journal flushes by result",
		},
		[]string{"result"},
	)

	// JournalRotations counts journal rotations.
	JournalRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supply_journal_rotations_total",
			Help: "Total number of journal rotations",
		},
	)

	// HTTPRequestDuration tracks request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supply_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveOperation records one operation outcome.
func ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	OperationsTotal.WithLabelValues(op, result).Inc()
}

// ObserveContainers publishes the current container sizes and history depth.
func ObserveContainers(market, pool, exhausted, history int) {
	Containers.WithLabelValues("market").Set(float64(market))
	Containers.WithLabelValues("pool").Set(float64(pool))
	Containers.WithLabelValues("exhausted").Set(float64(exhausted))
	HistoryDepth.Set(float64(history))
}

// GinMiddleware records request metrics.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
