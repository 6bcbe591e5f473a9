package inspect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "textfield",
			Subsystem: "inspect",
			Name:      "event_stream_clients",
			Help:      "Number of connected event stream clients",
		},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "inspect",
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped for slow stream clients",
		},
	)
)
