package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
)

func (r *walletsRepo) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wallets.ErrUserNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (r *walletsRepo) LockAndGetBalance(tx *sql.Tx, userID string) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		SELECT balance
		FROM profiles
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wallets.ErrUserNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
