package bets

import (
	"database/sql"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/bets"
)

// Finalize moves a pending bet into its terminal state. The status guard in
// the WHERE clause makes the transition single-fire: a bet already settled
// or voided is never touched again.
func (r *betsRepo) Finalize(tx *sql.Tx, betID string, status bets.Status, payout int64) error {
	if status == bets.StatusPending {
		return fmt.Errorf("finalize to pending: %w", bets.ErrNotPending)
	}

	var payoutArg any
	if status == bets.StatusWon {
		payoutArg = payout
	}

	res, err := tx.Exec(`
		UPDATE bets
		SET status = $2, payout = $3, settled_at = now()
		WHERE id = $1
		  AND status = 'pending'
	`, betID, status, payoutArg)
	if err != nil {
		return fmt.Errorf("finalize bet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return bets.ErrNotPending
	}

	return nil
}
