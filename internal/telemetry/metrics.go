// Package telemetry provides application-level observability for the note backend.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<NOTES_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090. The endpoint is NOT served by the Gin router, so it is never
// reachable through the public API ingress and is not subject to the API rate
// limiter.
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/notes/:id) rather
// than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as note ids.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// LoginAttemptsTotal counts login requests by outcome ("success" or "failure").
// The failure counter deliberately does not distinguish unknown-account from
// wrong-password, mirroring the API response. An alert on a failure-rate spike is
// a useful credential-stuffing signal:
//
//	rate(login_attempts_total{outcome="failure"}[5m]) > 1
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthorizationDeniedTotal counts requests rejected by the role gate, by action.
// A nonzero rate is normal (readers probing write endpoints); a sudden jump for a
// single action is worth a look.
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Total number of requests denied by the role permission table, by action.",
	},
	[]string{"action"},
)

// DBOpenConnections tracks the number of connections currently open in the MongoDB
// driver pool. It is fed by the PoolMonitor below rather than polled.
//
// Example PromQL: db_open_connections > 90 (for max_pool_size=100).
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open connections in the MongoDB driver pool.",
	},
)

// MongoPoolMonitor returns an event.PoolMonitor that keeps DBOpenConnections in
// sync with the driver's pool. Pass it to options.Client().SetPoolMonitor when
// connecting; see db.Connect.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				DBOpenConnections.Inc()
			case event.ConnectionClosed:
				DBOpenConnections.Dec()
			}
		},
	}
}
