package bets

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/repos/bets"
)

var _ bets.Bets = (*betsRepo)(nil)

type betsRepo struct{ db *sql.DB }

func New(db *sql.DB) *betsRepo {
	return &betsRepo{db: db}
}

func (r *betsRepo) Insert(tx *sql.Tx, userID, marketID, optionID string, amount int64, odds float64) (string, error) {
	betID := uuid.NewString()

	_, err := tx.Exec(`
		INSERT INTO bets (id, user_id, market_id, bet_option_id, amount, odds_at_placement, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`, betID, userID, marketID, optionID, amount, odds)
	if err != nil {
		return "", fmt.Errorf("insert bet: %w", err)
	}

	return betID, nil
}
