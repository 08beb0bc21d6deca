// ABOUTME: Prometheus metrics for hub message flow and session tracking
// ABOUTME: Registered via promauto and served from the HTTP API at /metrics

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful agent registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_registrations_total",
		Help: "Total number of agents registered.",
	})

	// MessagesPersisted counts messages appended to the store.
	MessagesPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_messages_persisted_total",
		Help: "Total number of messages persisted to the store.",
	})

	// PersistFailures counts store appends that failed.
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_persist_failures_total",
		Help: "Total number of failed message persistence attempts.",
	})

	// MessagesRouted counts messages enqueued for live delivery, by kind.
	MessagesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meshhub_messages_routed_total",
		Help: "Total number of messages routed to live sessions, by message kind.",
	}, []string{"kind"})

	// MessagesDropped counts live deliveries dropped because a session
	// queue was full. Replay picks these up on the next scan.
	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_messages_dropped_total",
		Help: "Total number of live deliveries dropped due to a full session queue.",
	})

	// SessionsActive tracks the number of bound agent sessions.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshhub_sessions_active",
		Help: "Number of currently bound agent sessions.",
	})

	// ReplayScans counts catch-up scans executed by session replay loops.
	ReplayScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_replay_scans_total",
		Help: "Total number of replay catch-up scans.",
	})

	// ReplayScanErrors counts failed catch-up scans. Scan failures back
	// off and retry; they never tear down the stream.
	ReplayScanErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshhub_replay_scan_errors_total",
		Help: "Total number of failed replay catch-up scans.",
	})

	// SSEClients tracks connected server-sent-events subscribers.
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshhub_sse_clients",
		Help: "Number of connected SSE subscribers.",
	})
)
