package wallets

import (
	"context"
	"database/sql"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInsufficientBalance = errors.New("insufficient balance")

// Wallets reads and mutates profile balances. Mutations take a *sql.Tx so
// the caller can pair every balance change with a ledger entry in the same
// transaction.
type Wallets interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	LockAndGetBalance(tx *sql.Tx, userID string) (int64, error)
	Credit(tx *sql.Tx, userID string, amount int64) error
	Debit(tx *sql.Tx, userID string, amount int64) error
}
