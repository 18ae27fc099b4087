package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// EntryType tags a ledger row with the business operation that produced it.
type EntryType string

const (
	EntryTopup  EntryType = "topup"
	EntryBet    EntryType = "bet"
	EntryWin    EntryType = "win"
	EntryRefund EntryType = "refund"
)

// Entry is one append-only, signed-amount wallet mutation. A profile's
// balance must equal the sum of its entry amounts at all times.
type Entry struct {
	ID          int64
	UserID      string
	Type        EntryType
	Amount      int64
	Description string
	CreatedAt   time.Time
}

type Ledger interface {
	Insert(tx *sql.Tx, userID string, typ EntryType, amount int64, description string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
	SumByUser(ctx context.Context, userID string) (int64, error)
}
