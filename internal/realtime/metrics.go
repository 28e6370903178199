package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnectionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "idenflow",
		Subsystem: "realtime",
		Name:      "connections_live",
		Help:      "Number of currently connected realtime clients.",
	})

	metricEventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "idenflow",
		Subsystem: "realtime",
		Name:      "events_published_total",
		Help:      "Events accepted by the bus for fan-out.",
	})

	metricEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "idenflow",
		Subsystem: "realtime",
		Name:      "events_dropped_total",
		Help:      "Per-client deliveries dropped due to backpressure or shutdown.",
	})
)
