// Package metrics exposes the service counters and a small sidecar server
// for /metrics and /healthz, listening on its own port so scrapes never
// share the public listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crickpool_bets_placed_total",
		Help: "Bets accepted and committed.",
	})

	BetsVoided = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crickpool_bets_voided_total",
		Help: "Pending bets voided and refunded.",
	})

	MarketsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crickpool_markets_settled_total",
		Help: "Markets settled (manual and feed-driven).",
	})

	PayoutPaise = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crickpool_payout_paise_total",
		Help: "Total winnings credited to wallets, in paise.",
	})
)
