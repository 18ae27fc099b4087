// Package events holds the wire payloads published after a business
// operation commits. Amounts are paise.
package events

import "time"

type BetPlaced struct {
	BetID           string    `json:"bet_id"`
	UserID          string    `json:"user_id"`
	MarketID        string    `json:"market_id"`
	BetOptionID     string    `json:"bet_option_id"`
	Amount          int64     `json:"amount"`
	OddsAtPlacement float64   `json:"odds_at_placement"`
	PlacedAt        time.Time `json:"placed_at"`
}

type BetVoided struct {
	BetID    string    `json:"bet_id"`
	UserID   string    `json:"user_id"`
	Refunded int64     `json:"refunded"`
	VoidedAt time.Time `json:"voided_at"`
}

type MarketSettled struct {
	MarketID        string    `json:"market_id"`
	WinningOptionID string    `json:"winning_option_id"`
	Result          string    `json:"result"`
	WonBets         int       `json:"won_bets"`
	LostBets        int       `json:"lost_bets"`
	TotalPayout     int64     `json:"total_payout"`
	SettledAt       time.Time `json:"settled_at"`
}
