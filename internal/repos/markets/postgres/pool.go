package markets

import (
	"database/sql"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
)

// IncrementOptionPool adjusts the running pool total for an option.
// Callers must hold the market row lock (LockWithOptions) so that the
// cached aggregate stays consistent with the bet rows written in the same
// transaction.
func (r *marketsRepo) IncrementOptionPool(tx *sql.Tx, optionID string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE bet_options
		SET total_amount_bet = total_amount_bet + $2
		WHERE id = $1
	`, optionID, amount)
	if err != nil {
		return fmt.Errorf("increment option pool: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return markets.ErrOptionNotFound
	}

	return nil
}
