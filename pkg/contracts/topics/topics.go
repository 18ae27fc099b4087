// Package topics names the Kafka topics shared between the service and
// any downstream consumers.
package topics

const (
	BetPlaced     = "bet_placed"
	BetVoided     = "bet_voided"
	MarketSettled = "market_settled"
)
