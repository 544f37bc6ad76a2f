// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConversationsTotal tracks conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_conversations_total",
			Help: "Total conversations created",
		},
	)

	// MessagesTotal tracks messages appended, by author kind.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_messages_total",
			Help: "Total messages appended",
		},
		[]string{"author"},
	)

	// ResponderReplyDuration tracks simulated reply latency, delay included.
	ResponderReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "responder_reply_duration_seconds",
			Help:    "Simulated reply duration from trigger to append",
			Buckets: []float64{.1, .25, .5, 1, 1.5, 2, 2.5, 3, 5, 10},
		},
		[]string{"generator", "status"},
	)

	// ResponderPending tracks in-flight simulated replies.
	ResponderPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "responder_pending",
			Help: "Number of conversations with a pending simulated reply",
		},
	)

	// ResponderFallbacksTotal tracks generation failures that fell back to
	// the fixed reply.
	ResponderFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "responder_fallbacks_total",
			Help: "Total replies substituted with the fallback text",
		},
	)

	// PresenceUpdatesTotal tracks presence status writes.
	PresenceUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_updates_total",
			Help: "Total presence status updates",
		},
		[]string{"status"},
	)
)

// RecordReply records one completed (or cancelled) responder run.
func RecordReply(generator, status string, durationSec float64) {
	ResponderReplyDuration.WithLabelValues(generator, status).Observe(durationSec)
}
