// Package metrics exposes the Prometheus collectors for upstream calls and
// live map sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmap_upstream_requests_total",
			Help: "Calls to upstream providers by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripmap_upstream_request_duration_seconds",
			Help:    "Latency of upstream provider calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	ActiveMapSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripmap_map_sessions_active",
			Help: "Map sessions currently held in memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests, UpstreamDuration, ActiveMapSessions)
}

// ObserveUpstream records one finished upstream call.
func ObserveUpstream(service string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(service, outcome).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
