package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_requests_total",
			Help: "Total ticket purchase requests by result",
		},
		[]string{"result"},
	)

	purchaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_request_duration_ms",
			Help:    "Ticket purchase processing duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)
)

// RecordPurchase 记录购票业务指标
// result: "success" | "fail"
func RecordPurchase(result string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	purchaseTotal.WithLabelValues(res).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	purchaseDuration.WithLabelValues(res).Observe(durMs)
}
