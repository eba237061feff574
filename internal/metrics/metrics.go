// Package metrics exposes Prometheus instrumentation for the ledger,
// mirroring the gauge/counter/histogram layout of the example pack's
// p2pool metrics package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ledgerbank",
		Name:      "chain_height",
		Help:      "Number of sealed blocks in the chain.",
	})

	TxSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ledgerbank",
		Name:      "tx_submitted_total",
		Help:      "Total transactions accepted by submit.",
	})

	TxRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledgerbank",
		Name:      "tx_rejected_total",
		Help:      "Total transactions rejected by submit, by reason.",
	}, []string{"reason"})

	BlocksSealedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ledgerbank",
		Name:      "blocks_sealed_total",
		Help:      "Total blocks sealed.",
	})

	MiningSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ledgerbank",
		Name:      "mining_seconds",
		Help:      "Wall-clock time spent mining a sealed block.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(ChainHeight, TxSubmittedTotal, TxRejectedTotal, BlocksSealedTotal, MiningSeconds)
}
