package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recomm_requests_total",
			Help: "Total number of dispatched protocol requests.",
		},
		[]string{"method", "code"},
	)

	RequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recomm_request_duration_seconds",
			Help:    "Duration of protocol request handling.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recomm_active_connections",
			Help: "Number of currently registered live connections.",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recomm_notifications_total",
			Help: "Total number of notification deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recomm_auth_attempts_total",
			Help: "Total number of registration and login attempts.",
		},
		[]string{"flow", "result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDurationSeconds,
		ActiveConnections,
		NotificationsTotal,
		AuthAttemptsTotal,
	)
}
