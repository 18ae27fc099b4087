package markets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
)

const marketColumns = `id, match_id, market_type, house_edge_pct, status, result`

func scanMarket(row *sql.Row) (*markets.Market, error) {
	var m markets.Market

	err := row.Scan(&m.ID, &m.MatchID, &m.Type, &m.HouseEdgePct, &m.Status, &m.Result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, markets.ErrMarketNotFound
		}

		return nil, fmt.Errorf("scan market: %w", err)
	}

	return &m, nil
}

func (r *marketsRepo) GetWithOptions(ctx context.Context, marketID string) (*markets.Market, []markets.Option, error) {
	m, err := scanMarket(r.db.QueryRowContext(ctx,
		`SELECT `+marketColumns+` FROM markets WHERE id = $1`, marketID))
	if err != nil {
		return nil, nil, err
	}

	opts, err := optionsByMarket(r.db, marketID)
	if err != nil {
		return nil, nil, err
	}

	return m, opts, nil
}

// LockWithOptions takes the market row lock that serializes all pool
// mutations and the settlement of a market.
func (r *marketsRepo) LockWithOptions(tx *sql.Tx, marketID string) (*markets.Market, []markets.Option, error) {
	m, err := scanMarket(tx.QueryRow(
		`SELECT `+marketColumns+` FROM markets WHERE id = $1 FOR UPDATE`, marketID))
	if err != nil {
		return nil, nil, err
	}

	opts, err := optionsByMarket(tx, marketID)
	if err != nil {
		return nil, nil, err
	}

	return m, opts, nil
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func optionsByMarket(q querier, marketID string) ([]markets.Option, error) {
	rows, err := q.Query(`
		SELECT id, market_id, label, total_amount_bet
		FROM bet_options
		WHERE market_id = $1
		ORDER BY label
	`, marketID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var opts []markets.Option

	for rows.Next() {
		var o markets.Option

		err = rows.Scan(&o.ID, &o.MarketID, &o.Label, &o.TotalAmountBet)
		if err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}

		opts = append(opts, o)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}

	return opts, nil
}

func (r *marketsRepo) ListByMatch(ctx context.Context, matchID string) ([]markets.MarketWithOptions, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+marketColumns+` FROM markets WHERE match_id = $1 ORDER BY market_type, id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	var list []markets.MarketWithOptions

	for rows.Next() {
		var m markets.Market

		err = rows.Scan(&m.ID, &m.MatchID, &m.Type, &m.HouseEdgePct, &m.Status, &m.Result)
		if err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}

		list = append(list, markets.MarketWithOptions{Market: m})
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}

	for i := range list {
		list[i].Options, err = optionsByMarket(r.db, list[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (r *marketsRepo) FindUnsettledByMatchType(ctx context.Context, matchID string, typ markets.Type) (*markets.Market, []markets.Option, error) {
	m, err := scanMarket(r.db.QueryRowContext(ctx, `
		SELECT `+marketColumns+`
		FROM markets
		WHERE match_id = $1
		  AND market_type = $2
		  AND status <> 'settled'
		ORDER BY id
		LIMIT 1
	`, matchID, typ))
	if err != nil {
		return nil, nil, err
	}

	opts, err := optionsByMarket(r.db, m.ID)
	if err != nil {
		return nil, nil, err
	}

	return m, opts, nil
}
