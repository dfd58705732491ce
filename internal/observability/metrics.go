// Package observability defines the application's Prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MessagesSentTotal counts direct messages persisted, by message type.
	MessagesSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_messages_sent_total",
		Help: "Total number of direct messages sent",
	}, []string{"message_type"})

	// MessagesMarkedRead counts messages flipped to read when a conversation is viewed.
	MessagesMarkedRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_messages_marked_read_total",
		Help: "Total number of messages marked as read",
	})

	// FollowTogglesTotal counts follow graph mutations by direction.
	FollowTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_follow_toggles_total",
		Help: "Total number of follow toggles",
	}, []string{"direction"}) // "follow" or "unfollow"

	// SigninAttemptsTotal counts signin attempts by outcome.
	SigninAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_signin_attempts_total",
		Help: "Total number of signin attempts",
	}, []string{"outcome"}) // "ok" or "rejected"
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
