package markets

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
)

func (r *marketsRepo) Create(tx *sql.Tx, matchID string, typ markets.Type, houseEdgePct float64, labels []string) (string, error) {
	marketID := uuid.NewString()

	_, err := tx.Exec(`
		INSERT INTO markets (id, match_id, market_type, house_edge_pct, status)
		VALUES ($1, $2, $3, $4, 'open')
	`, marketID, matchID, typ, houseEdgePct)
	if err != nil {
		return "", fmt.Errorf("insert market: %w", err)
	}

	for _, label := range labels {
		_, err = tx.Exec(`
			INSERT INTO bet_options (id, market_id, label, total_amount_bet)
			VALUES ($1, $2, $3, 0)
		`, uuid.NewString(), marketID, label)
		if err != nil {
			return "", fmt.Errorf("insert bet option %q: %w", label, err)
		}
	}

	return marketID, nil
}

func (r *marketsRepo) Delete(tx *sql.Tx, marketID string) error {
	res, err := tx.Exec(`DELETE FROM markets WHERE id = $1`, marketID)
	if err != nil {
		return fmt.Errorf("delete market: %w", err)
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
