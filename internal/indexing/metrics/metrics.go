package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks RPC calls per method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addrwatch_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"method"},
	)

	// RPCErrorsTotal tracks RPC errors per method and error kind
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addrwatch_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"method", "error_type"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "addrwatch_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ChainLatestBlock tracks the last height observed by the connectivity probe
	ChainLatestBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "addrwatch_chain_latest_block",
			Help: "Latest block height of the chain",
		},
	)

	// ConnectivityOnline is 1 while the endpoint is reachable
	ConnectivityOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "addrwatch_connectivity_online",
			Help: "1 when the RPC endpoint is online, 0 otherwise",
		},
	)

	// ScanCursor tracks the highest block scanned for watched addresses
	ScanCursor = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "addrwatch_scan_cursor",
			Help: "Highest block scanned for watched-address matches",
		},
	)

	// ScanTicksTotal tracks scan ticks by outcome
	ScanTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addrwatch_scan_ticks_total",
			Help: "Total number of scan ticks",
		},
		[]string{"outcome"}, // scanned, offline, idle, busy, initialized, caught_up, aborted
	)

	// BlocksScanned tracks blocks fetched and inspected
	BlocksScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "addrwatch_blocks_scanned_total",
			Help: "Total number of blocks inspected for matches",
		},
	)

	// BlocksSkipped tracks blocks left behind by the catch-up window or failed fetches
	BlocksSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addrwatch_blocks_skipped_total",
			Help: "Total number of blocks never inspected",
		},
		[]string{"reason"}, // window, fetch_failed
	)

	// AlertsEmitted tracks alerts by kind
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addrwatch_alerts_emitted_total",
			Help: "Total number of alerts added to the feed",
		},
		[]string{"kind"},
	)

	// AlertsSuppressed tracks error alerts dropped by the rate limiter
	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "addrwatch_alerts_suppressed_total",
			Help: "Total number of error alerts suppressed by rate limiting",
		},
	)
)
