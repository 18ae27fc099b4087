package bets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/bets"
)

const betColumns = `id, user_id, market_id, bet_option_id, amount, odds_at_placement, status, COALESCE(payout, 0), created_at, settled_at`

func scanBet(scan func(...any) error) (*bets.Bet, error) {
	var b bets.Bet

	err := scan(&b.ID, &b.UserID, &b.MarketID, &b.BetOptionID, &b.Amount,
		&b.OddsAtPlacement, &b.Status, &b.Payout, &b.CreatedAt, &b.SettledAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *betsRepo) Get(ctx context.Context, betID string) (*bets.Bet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+betColumns+` FROM bets WHERE id = $1`, betID)

	b, err := scanBet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bets.ErrBetNotFound
		}

		return nil, fmt.Errorf("get bet: %w", err)
	}

	return b, nil
}

// LockPending locks the bet row and returns it only while still pending.
// Terminal bets are reported as ErrNotPending so a void retried after
// settlement cannot issue a second refund.
func (r *betsRepo) LockPending(tx *sql.Tx, betID string) (*bets.Bet, error) {
	row := tx.QueryRow(
		`SELECT `+betColumns+` FROM bets WHERE id = $1 FOR UPDATE`, betID)

	b, err := scanBet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bets.ErrBetNotFound
		}

		return nil, fmt.Errorf("lock bet: %w", err)
	}

	if b.Status != bets.StatusPending {
		return nil, bets.ErrNotPending
	}

	return b, nil
}

func (r *betsRepo) LockPendingByMarket(tx *sql.Tx, marketID string) ([]bets.Bet, error) {
	rows, err := tx.Query(`
		SELECT `+betColumns+`
		FROM bets
		WHERE market_id = $1
		  AND status = 'pending'
		ORDER BY created_at, id
		FOR UPDATE
	`, marketID)
	if err != nil {
		return nil, fmt.Errorf("lock pending bets: %w", err)
	}
	defer rows.Close()

	var list []bets.Bet

	for rows.Next() {
		b, err := scanBet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}

		list = append(list, *b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}

	return list, nil
}

func (r *betsRepo) PendingIDsByMarket(ctx context.Context, marketID string) ([]string, error) {
	return r.pendingIDs(ctx, `
		SELECT id FROM bets
		WHERE market_id = $1 AND status = 'pending'
		ORDER BY created_at, id
	`, marketID)
}

func (r *betsRepo) PendingIDsByMatch(ctx context.Context, matchID string) ([]string, error) {
	return r.pendingIDs(ctx, `
		SELECT b.id
		FROM bets b
		JOIN markets m ON m.id = b.market_id
		WHERE m.match_id = $1 AND b.status = 'pending'
		ORDER BY b.created_at, b.id
	`, matchID)
}

func (r *betsRepo) pendingIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query pending ids: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string

		err = rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}

		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}

	return ids, nil
}

func (r *betsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]bets.Bet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+betColumns+`
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	var list []bets.Bet

	for rows.Next() {
		b, err := scanBet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}

		list = append(list, *b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}

	return list, nil
}

// PendingExposureByUser sums the stake currently locked in the user's
// pending bets.
func (r *betsRepo) PendingExposureByUser(ctx context.Context, userID string) (int64, error) {
	var exposure int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM bets
		WHERE user_id = $1 AND status = 'pending'
	`, userID).Scan(&exposure)
	if err != nil {
		return 0, fmt.Errorf("sum pending exposure: %w", err)
	}

	return exposure, nil
}
