package bets

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrBetNotFound = errors.New("bet not found")
	ErrNotPending  = errors.New("bet not pending")
)

// Status is the bet lifecycle: pending until settlement or a void, then
// exactly one terminal state, immutable afterwards.
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusVoid    Status = "void"
)

type Bet struct {
	ID              string
	UserID          string
	MarketID        string
	BetOptionID     string
	Amount          int64
	OddsAtPlacement float64
	Status          Status
	Payout          int64
	CreatedAt       time.Time
	SettledAt       sql.NullTime
}

type Bets interface {
	Insert(tx *sql.Tx, userID, marketID, optionID string, amount int64, odds float64) (string, error)
	Get(ctx context.Context, betID string) (*Bet, error)
	LockPending(tx *sql.Tx, betID string) (*Bet, error)
	LockPendingByMarket(tx *sql.Tx, marketID string) ([]Bet, error)
	PendingIDsByMarket(ctx context.Context, marketID string) ([]string, error)
	PendingIDsByMatch(ctx context.Context, matchID string) ([]string, error)
	Finalize(tx *sql.Tx, betID string, status Status, payout int64) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Bet, error)
	PendingExposureByUser(ctx context.Context, userID string) (int64, error)
}
