package markets

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrMarketNotFound = errors.New("market not found")
	ErrOptionNotFound = errors.New("bet option not found")
	ErrStatusConflict = errors.New("market status conflict")
)

// Status is the market lifecycle. Transitions only ever run forward:
// open -> closed -> settled.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusSettled Status = "settled"
)

// Type enumerates the betable question kinds.
type Type string

const (
	TypeWinner    Type = "winner"
	TypeTopScorer Type = "top_scorer"
	TypeOverUnder Type = "over_under"
	TypeLive      Type = "live"
	TypeCustom    Type = "custom"
)

type Market struct {
	ID           string
	MatchID      string
	Type         Type
	HouseEdgePct float64
	Status       Status
	Result       sql.NullString
}

// Option is one exclusive outcome. TotalAmountBet is the running pool on
// this option in paise, maintained in lock-step with bet rows.
type Option struct {
	ID             string
	MarketID       string
	Label          string
	TotalAmountBet int64
}

type MarketWithOptions struct {
	Market
	Options []Option
}

type Markets interface {
	Create(tx *sql.Tx, matchID string, typ Type, houseEdgePct float64, labels []string) (string, error)
	GetWithOptions(ctx context.Context, marketID string) (*Market, []Option, error)
	LockWithOptions(tx *sql.Tx, marketID string) (*Market, []Option, error)
	ListByMatch(ctx context.Context, matchID string) ([]MarketWithOptions, error)
	FindUnsettledByMatchType(ctx context.Context, matchID string, typ Type) (*Market, []Option, error)
	TransitionStatus(tx *sql.Tx, marketID string, from, to Status) error
	SetResult(tx *sql.Tx, marketID, result string) error
	IncrementOptionPool(tx *sql.Tx, optionID string, amount int64) error
	Delete(tx *sql.Tx, marketID string) error
}
