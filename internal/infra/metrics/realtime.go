package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	realtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_total",
			Help: "Inbound realtime events by outcome (type, unknown, invalid, failed).",
		},
		[]string{"outcome"},
	)

	realtimeReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_reconnects_total",
			Help: "Reconnect attempts after the push channel closed.",
		},
	)

	realtimeConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connected",
			Help: "1 while the push channel is open.",
		},
	)
)

func init() {
	register(realtimeEvents, realtimeReconnects, realtimeConnected)
}

func IncRealtimeEvent(outcome string) { realtimeEvents.WithLabelValues(outcome).Inc() }

func IncRealtimeReconnect() { realtimeReconnects.Inc() }

func SetRealtimeConnected(up bool) {
	if up {
		realtimeConnected.Set(1)
	} else {
		realtimeConnected.Set(0)
	}
}
