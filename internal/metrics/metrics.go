package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// GatewayRequestsTotal counts calls to the spreadsheet script by action
	// and outcome. ok and error describe the HTTP exchange; rejected is
	// added on top of ok when the script answers but refuses the action.
	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taller_gateway_requests_total",
			Help: "Total number of requests sent to the spreadsheet gateway.",
		},
		[]string{"action", "outcome"},
	)

	GatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taller_gateway_latency_seconds",
			Help:    "Latency of spreadsheet gateway requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// SnapshotFallbackTotal counts vehicle listings served from the local
	// snapshot because the gateway failed.
	SnapshotFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taller_snapshot_fallback_total",
			Help: "Vehicle listings served from the local snapshot.",
		},
	)

	FinalizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taller_finalizations_total",
			Help: "Vehicles finalized, split by whether a closing note was required.",
		},
		[]string{"note_required"},
	)
)

func init() {
	prometheus.MustRegister(GatewayRequestsTotal)
	prometheus.MustRegister(GatewayLatency)
	prometheus.MustRegister(SnapshotFallbackTotal)
	prometheus.MustRegister(FinalizationsTotal)
}
