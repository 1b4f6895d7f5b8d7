// Package metrics implements the gateway's observability surface: request
// and route counters, filter chain latency, and rate-limiter decisions,
// exposed for scraping via github.com/prometheus/client_golang.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	RoutedRequests  *prometheus.CounterVec
	ChainDuration   *prometheus.HistogramVec
	RateLimitDenied *prometheus.CounterVec
}

// New registers and returns a fresh Metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the global
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoutedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_routed_requests_total",
			Help: "Number of requests matched to a route, by route id and outcome.",
		}, []string{"route", "outcome"}),
		ChainDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_chain_duration_seconds",
			Help:    "Filter chain execution latency, by route id.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimitDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_ratelimit_denied_total",
			Help: "Number of requests denied by the rate limiter, by bucket id.",
		}, []string{"bucket"}),
	}

	reg.MustRegister(m.RoutedRequests, m.ChainDuration, m.RateLimitDenied)
	return m
}

// Handler exposes the metrics in the Prometheus text exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
