package hostlink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "sessions_active",
			Help:      "Number of connected host sessions",
		},
	)

	SessionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "sessions_rejected_total",
			Help:      "Total number of host connections refused because a session was active",
		},
	)

	// Frame metrics
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "frames_received_total",
			Help:      "Total number of frames received from the host",
		},
		[]string{"kind"},
	)

	FramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "frames_sent_total",
			Help:      "Total number of frames written to the host",
		},
		[]string{"kind"},
	)

	FramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "frames_dropped_total",
			Help:      "Total number of event frames dropped on a full send queue",
		},
	)

	CallTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "call_timeouts_total",
			Help:      "Total number of host calls that missed the call deadline",
		},
	)

	CallsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textfield",
			Subsystem: "hostlink",
			Name:      "calls_throttled_total",
			Help:      "Total number of host calls delayed by the per-session rate limit",
		},
	)
)
