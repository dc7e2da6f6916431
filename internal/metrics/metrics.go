package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks contract calls per chain, method and outcome
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_rpc_calls_total",
			Help: "Total number of ledger RPC calls",
		},
		[]string{"chain", "method", "outcome"},
	)

	// RPCLatency tracks contract call latency including retries
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketing_rpc_latency_seconds",
			Help:    "Ledger RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "method"},
	)

	// ResolverProbesTotal tracks chain probes by outcome (found, absent, unreachable, cancelled)
	ResolverProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_resolver_probes_total",
			Help: "Total number of chain probes issued while resolving tickets",
		},
		[]string{"chain", "outcome"},
	)

	// SyncMutationsTotal tracks mutation projections by type and status
	SyncMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_sync_mutations_total",
			Help: "Total number of mutations handled by the sync engine",
		},
		[]string{"tx_type", "status"},
	)

	// ReadPathTotal tracks where reads were served from (cache, chain, healed)
	ReadPathTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_read_path_total",
			Help: "Total number of ticket reads by source",
		},
		[]string{"operation", "source"},
	)

	// ReconcileQueueDepth tracks the number of keys waiting for reconciliation
	ReconcileQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketing_reconcile_queue_depth",
			Help: "Number of ticket keys waiting for reconciliation",
		},
	)

	// ReconcileTotal tracks reconciliation attempts by outcome
	ReconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_reconcile_total",
			Help: "Total number of ticket rebuilds run by the reconciler",
		},
		[]string{"outcome"},
	)

	// BridgeMessagesTotal tracks mutation records consumed from the broker by ack outcome
	BridgeMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_bridge_messages_total",
			Help: "Total number of mutation records consumed by the sync bridge",
		},
		[]string{"outcome"},
	)

	// HTTPRequestsTotal tracks API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)
