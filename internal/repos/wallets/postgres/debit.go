package wallets

import (
	"database/sql"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
)

// Debit decreases the balance only if it covers the amount. The guard runs
// inside the UPDATE itself so concurrent bets draining the same wallet
// cannot slip past a stale pre-flight read.
func (r *walletsRepo) Debit(tx *sql.Tx, userID string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE profiles
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		var exists bool

		err = tx.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)
		`, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}

		if !exists {
			return wallets.ErrUserNotFound
		}

		return wallets.ErrInsufficientBalance
	}

	return nil
}
