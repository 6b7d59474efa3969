// Package metrics holds the prometheus collectors shared by the API and the
// front-end.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_http_requests_total",
			Help: "HTTP requests served, by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signup_http_request_duration_seconds",
			Help:    "Latency of served HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	rosterChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_roster_changes_total",
			Help: "Signup and unregister attempts against the activity API, by result",
		},
		[]string{"operation", "result"},
	)

	clientDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signup_client_request_duration_seconds",
			Help:    "Latency of front-end calls to the activity API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	notices = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_notices_total",
			Help: "Transient notices shown to users, by kind",
		},
		[]string{"kind"},
	)

	sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signup_sessions_active",
			Help: "Live front-end sessions",
		},
	)
)

// TrackRequest records one served HTTP request.
func TrackRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackRosterChange records a signup or unregister attempt.
func TrackRosterChange(operation, result string) {
	rosterChanges.WithLabelValues(operation, result).Inc()
}

// TrackClientCall records one outbound API call made by the front-end.
func TrackClientCall(operation, outcome string, d time.Duration) {
	clientDuration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// TrackNotice counts a notice of the given kind.
func TrackNotice(kind string) {
	notices.WithLabelValues(kind).Inc()
}

// SetSessions sets the live session gauge.
func SetSessions(n int) {
	sessions.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
