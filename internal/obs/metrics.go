package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	opsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_operations_total",
			Help: "Total number of facade operations.",
		},
		[]string{"op", "result"},
	)

	opDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bank_operation_duration_seconds",
			Help:    "Facade operation latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_login_attempts_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bank_active_sessions",
		Help: "Live session tokens in the session table.",
	})
)

// Init registers the metrics in the default registry.
func Init() {
	prometheus.MustRegister(opsTotal, opDuration, loginAttempts, activeSessions)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOp records one facade operation.
func ObserveOp(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	opsTotal.WithLabelValues(op, result).Inc()
	opDuration.WithLabelValues(op).Observe(d.Seconds())
}

// LoginAttempt counts a login by result ("ok", "not_found", "mismatch", ...).
func LoginAttempt(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// SetActiveSessions publishes the current session table size.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
