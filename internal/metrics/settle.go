package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settle_requests_total",
			Help: "Total draw settlement requests by result and source_mode",
		},
		[]string{"result", "source_mode"},
	)

	settleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settle_request_duration_ms",
			Help:    "Draw settlement processing duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "source_mode"},
	)
)

// RecordSettle 记录结算业务指标
// result: "success" | "fail"
// sourceMode: "all" | "sold_only" | "unknown"
func RecordSettle(result, sourceMode string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	sm := strings.ToLower(strings.TrimSpace(sourceMode))
	if sm == "" {
		sm = "unknown"
	}
	settleTotal.WithLabelValues(res, sm).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	settleDuration.WithLabelValues(res, sm).Observe(durMs)
}
