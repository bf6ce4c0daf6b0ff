package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Repository metrics
var (
	// SessionsCreatedTotal counts sessions created since startup
	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_sessions_created_total",
			Help: "Total sessions created",
		},
	)

	// FeedbackSubmittedTotal counts accepted feedback submissions
	FeedbackSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_feedback_submitted_total",
			Help: "Total feedback entries accepted",
		},
	)

	// FeedbackTrimmedTotal counts feedback entries evicted by the retention cap
	FeedbackTrimmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_feedback_trimmed_total",
			Help: "Total feedback entries evicted by the per-session retention cap",
		},
	)

	// SessionResponses tracks current retained feedback count per session
	SessionResponses = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulse_session_responses",
			Help: "Currently retained feedback entries per session",
		},
		[]string{"session_code"},
	)
)

// Snapshot metrics
var (
	// SnapshotWritesTotal counts durable snapshot writes by status
	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_snapshot_writes_total",
			Help: "Total snapshot writes by status",
		},
		[]string{"status"},
	)

	// SnapshotWriteDuration tracks snapshot write latency in seconds
	SnapshotWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_snapshot_write_duration_seconds",
			Help:    "Snapshot write duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

// Broadcaster metrics
var (
	// BroadcastSubscribers tracks currently registered subscriptions
	BroadcastSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulse_broadcast_subscribers",
			Help: "Currently registered live-update subscriptions",
		},
	)

	// BroadcastSessions tracks sessions with at least one subscriber
	BroadcastSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulse_broadcast_sessions",
			Help: "Sessions with at least one live subscriber",
		},
	)

	// BroadcastDeliveredTotal counts updates enqueued to subscriber channels
	BroadcastDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_broadcast_delivered_total",
			Help: "Total updates enqueued to subscriber channels",
		},
	)

	// BroadcastDroppedTotal counts updates dropped because a subscriber channel was full
	BroadcastDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_broadcast_dropped_total",
			Help: "Total updates dropped due to full subscriber channels",
		},
	)
)

// HTTP metrics
var (
	// FeedbackRateLimitedTotal counts feedback submissions rejected by the rate limiter
	FeedbackRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_feedback_rate_limited_total",
			Help: "Total feedback submissions rejected by the per-client rate limiter",
		},
	)
)
