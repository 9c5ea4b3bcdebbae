package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_requests_total",
			Help: "Total prize claim requests by result and tier",
		},
		[]string{"result", "tier"},
	)

	claimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claim_request_duration_ms",
			Help:    "Prize claim processing duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "tier"},
	)
)

// RecordClaim 记录兑奖业务指标
// result: "success" | "fail"
// tier: 派发奖级，未中奖或失败时为 "none"
func RecordClaim(result, tier string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	t := strings.ToLower(strings.TrimSpace(tier))
	if t == "" {
		t = "none"
	}
	claimTotal.WithLabelValues(res, t).Inc()
	durMs := float64(time.Since(started).Milliseconds())
	claimDuration.WithLabelValues(res, t).Observe(durMs)
}
