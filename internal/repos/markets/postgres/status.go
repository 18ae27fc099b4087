package markets

import (
	"database/sql"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
)

// TransitionStatus moves the market from one status to the next with a
// conditional update. Zero rows affected means the market is not in the
// expected state; for closed->settled that conditional is the single-fire
// gate of the settlement protocol.
func (r *marketsRepo) TransitionStatus(tx *sql.Tx, marketID string, from, to markets.Status) error {
	res, err := tx.Exec(`
		UPDATE markets
		SET status = $3, updated_at = now()
		WHERE id = $1
		  AND status = $2
	`, marketID, from, to)
	if err != nil {
		return fmt.Errorf("transition status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return markets.ErrStatusConflict
	}

	return nil
}

func (r *marketsRepo) SetResult(tx *sql.Tx, marketID, result string) error {
	res, err := tx.Exec(`
		UPDATE markets
		SET result = $2, updated_at = now()
		WHERE id = $1
	`, marketID, result)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return markets.ErrMarketNotFound
	}

	return nil
}
