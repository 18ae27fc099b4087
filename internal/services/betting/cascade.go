package betting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rvidyarthi/crickpool/internal/infra/pgutils"
)

// DeleteMarket voids every pending bet under the market, then removes the
// market and its dependent rows. Each void is its own atomic transaction;
// the final delete only runs once no pending bet survives, so a failure
// partway leaves already-voided bets refunded and the market intact.
func (s *Service) DeleteMarket(ctx context.Context, marketID string) error {
	ids, err := s.bets.PendingIDsByMarket(ctx, marketID)
	if err != nil {
		return fmt.Errorf("list pending bets: %w", err)
	}

	err = s.voidAll(ctx, ids)
	if err != nil {
		return err
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.markets.Delete(tx, marketID)
	})
	if err != nil {
		return fmt.Errorf("delete market: %w", err)
	}

	return nil
}

// DeleteMatch cascades over every market of the match.
func (s *Service) DeleteMatch(ctx context.Context, matchID string) error {
	ids, err := s.bets.PendingIDsByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("list pending bets: %w", err)
	}

	err = s.voidAll(ctx, ids)
	if err != nil {
		return err
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matches.Delete(tx, matchID)
	})
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}

func (s *Service) voidAll(ctx context.Context, betIDs []string) error {
	for _, id := range betIDs {
		_, err := s.VoidBet(ctx, id)
		if err != nil {
			// Raced with a concurrent settlement or void: the bet is
			// already terminal, nothing left to refund.
			if errors.Is(err, ErrNotVoidable) {
				slog.Info("cascade skip, bet no longer pending", "bet_id", id)
				continue
			}

			return fmt.Errorf("void bet %s: %w", id, err)
		}
	}

	return nil
}
