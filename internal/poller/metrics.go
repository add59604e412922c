package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics.
var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revwallet_poller_ticks_total",
		Help: "Total number of polling ticks executed",
	})

	resolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revwallet_poller_resolved_total",
			Help: "Total number of pending transactions resolved by outcome",
		},
		[]string{"outcome"},
	)

	transportFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revwallet_poller_transport_failures_total",
		Help: "Total number of transport failures observed by the connectivity probe",
	})

	breakerTripsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revwallet_poller_breaker_trips_total",
		Help: "Total number of circuit breaker trips",
	})
)

// State metrics.
var (
	pendingEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "revwallet_poller_pending_entries",
		Help: "Pending ledger entries observed on the last tick",
	})
)
