package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	tokensConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_tokens_consumed_total",
			Help: "Token cost reported by the pipeline.",
		},
	)

	quotaUsagePct = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quota_usage_percentage",
			Help: "Displayed quota usage percentage (clamped to 100).",
		},
	)

	quotaBand = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quota_band",
			Help: "Active quota band (1 for the current band, 0 otherwise).",
		},
		[]string{"band"},
	)

	quotaFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_fetch_failures_total",
			Help: "Failed token-usage fetches (stale reads).",
		},
	)
)

func init() {
	register(tokensConsumed, quotaUsagePct, quotaBand, quotaFetchFailures)
}

func AddTokensConsumed(n int) { tokensConsumed.Add(float64(n)) }

func IncQuotaFetchFailure() { quotaFetchFailures.Inc() }

func SetQuotaUsage(percentage float64, band string) {
	quotaUsagePct.Set(percentage)
	for _, b := range []string{"ok", "warning", "critical"} {
		v := 0.0
		if b == band {
			v = 1.0
		}
		quotaBand.WithLabelValues(b).Set(v)
	}
}
