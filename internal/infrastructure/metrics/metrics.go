package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections tracks currently open signaling connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_active_connections",
		Help: "Number of open signaling connections.",
	})

	// InboundEvents counts client events by type, unknown types included.
	InboundEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signaling_inbound_events_total",
		Help: "Client events received, by event type.",
	}, []string{"type"})

	// SignalsRelayed counts pairwise payloads delivered to their target.
	SignalsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signaling_relayed_total",
		Help: "Signaling payloads delivered point-to-point.",
	})

	// SignalsDropped counts pairwise payloads whose target was gone or
	// whose send buffer was full.
	SignalsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signaling_relay_dropped_total",
		Help: "Signaling payloads dropped (target gone or backpressure).",
	})

	// BroadcastDrops counts room fan-out frames skipped per member.
	BroadcastDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signaling_broadcast_dropped_total",
		Help: "Broadcast frames dropped for individual members.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
