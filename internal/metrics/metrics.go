package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PeersOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wavecall_relay_peers_online",
		Help: "Number of peers with a live signalling connection",
	})

	PeerConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavecall_relay_peer_connections_total",
		Help: "Total number of peer WebSocket connections accepted",
	})

	PeerDisconnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavecall_relay_peer_disconnections_total",
		Help: "Total number of peer WebSocket disconnections",
	})

	SignalMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavecall_relay_signal_messages_total",
		Help: "Total signalling messages by event type",
	}, []string{"event", "direction"}) // direction: "in" | "out"

	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavecall_relay_rejections_total",
		Help: "Total structured rejections sent back to senders",
	}, []string{"code"})

	RelayFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavecall_relay_delivery_failures_total",
		Help: "Relay deliveries that failed because the target connection was gone or closing",
	})

	ActiveCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wavecall_relay_active_calls",
		Help: "Number of non-terminal call sessions (ringing or active)",
	})

	CallsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavecall_relay_calls_initiated_total",
		Help: "Total call sessions created",
	})

	CallsEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavecall_relay_calls_ended_total",
		Help: "Total call sessions ended, by end reason",
	}, []string{"reason"})

	CallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wavecall_relay_call_duration_seconds",
		Help:    "Talk time of answered calls",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~4.5h
	})

	RingTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wavecall_relay_ring_time_seconds",
		Help:    "Time between initiate and answer",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
	})

	DirectoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavecall_relay_directory_requests_total",
		Help: "Requests made to the directory service",
	}, []string{"op", "status"}) // op: "peer_exists" | "record_outcome"; status: "ok" | "error"

	ConfigReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavecall_relay_config_reloads_total",
		Help: "Number of configuration reloads",
	})

	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wavecall_relay_start_time_seconds",
		Help: "Server start time in Unix seconds",
	})
)
