package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "idenflow",
		Subsystem: "api",
		Name:      "records_created_total",
		Help:      "Search records successfully persisted.",
	})

	metricSignups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "idenflow",
		Subsystem: "api",
		Name:      "signups_total",
		Help:      "Accounts created through the signup endpoint.",
	})
)
