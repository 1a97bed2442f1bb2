// Package monitoring exposes the gateway's Prometheus metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the gateway records. Constructing it with a
// fresh registry keeps tests isolated from each other.
type Metrics struct {
	RequestDuration  *prometheus.HistogramVec
	PacketsHandled   *prometheus.CounterVec
	UnhandledPackets prometheus.Counter
	ServiceCalls     *prometheus.CounterVec
	Logins           *prometheus.CounterVec
}

// New registers the gateway collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		PacketsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_packets_handled_total",
			Help: "Client packets dispatched to a handler, by packet name.",
		}, []string{"packet"}),

		UnhandledPackets: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_packets_unhandled_total",
			Help: "Client packets with no registered handler.",
		}),

		ServiceCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_service_calls_total",
			Help: "Backend REST calls by service and outcome.",
		}, []string{"service", "outcome"}),

		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
}
