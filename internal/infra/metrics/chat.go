package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages recorded locally, by role.",
		},
		[]string{"role"},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_alerts_total",
			Help: "Alerts created (post-dedupe), by type.",
		},
		[]string{"type"},
	)

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sessions_started_total",
			Help: "Sessions started.",
		},
	)

	sessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sessions_ended_total",
			Help: "Sessions ended, by trigger (explicit/inactivity/max_duration).",
		},
		[]string{"reason"},
	)
)

func init() {
	register(messagesTotal, alertsTotal, sessionsStarted, sessionsEnded)
}

func IncMessage(role string) { messagesTotal.WithLabelValues(role).Inc() }

func IncAlert(typ string) { alertsTotal.WithLabelValues(typ).Inc() }

func IncSessionStarted() { sessionsStarted.Inc() }

func IncSessionEnded(reason string) { sessionsEnded.WithLabelValues(reason).Inc() }
