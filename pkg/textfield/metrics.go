package textfield

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Command metrics
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "command",
			Name:      "handled_total",
			Help:      "Total number of host commands handled, by method and result code",
		},
		[]string{"method", "code"},
	)

	CommandLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "textfield",
			Subsystem: "command",
			Name:      "latency_seconds",
			Help:      "Host command handling latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us to ~100ms
		},
		[]string{"method"},
	)

	// Event metrics
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "event",
			Name:      "emitted_total",
			Help:      "Total number of events emitted to the host",
		},
		[]string{"event"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "event",
			Name:      "failed_total",
			Help:      "Total number of events the host transport rejected",
		},
		[]string{"event"},
	)

	// Instance metrics
	ActiveInstances = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "textfield",
			Subsystem: "instance",
			Name:      "active",
			Help:      "Number of live text field instances",
		},
	)

	InstancesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "instance",
			Name:      "created_total",
			Help:      "Total number of text field creation attempts, by outcome",
		},
		[]string{"outcome"},
	)
)

const codeOK = "OK"
