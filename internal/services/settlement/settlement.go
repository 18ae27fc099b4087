// Package settlement implements the single-fire market settlement
// protocol. Settlement runs in one transaction: the closed->settled
// transition, the result label, every bet finalization and every win
// credit commit or roll back together, so a partially settled market is
// never observable.
package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rvidyarthi/crickpool/internal/engine"
	"github.com/rvidyarthi/crickpool/internal/events"
	"github.com/rvidyarthi/crickpool/internal/infra/metrics"
	"github.com/rvidyarthi/crickpool/internal/infra/pgutils"
	"github.com/rvidyarthi/crickpool/internal/repos/bets"
	pgbets "github.com/rvidyarthi/crickpool/internal/repos/bets/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/ledger"
	pgledger "github.com/rvidyarthi/crickpool/internal/repos/ledger/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	pgmarkets "github.com/rvidyarthi/crickpool/internal/repos/markets/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
	pgwallets "github.com/rvidyarthi/crickpool/internal/repos/wallets/postgres"
	contract "github.com/rvidyarthi/crickpool/pkg/contracts/events"
)

var (
	ErrMarketNotClosed = errors.New("market must be closed before settlement")
	ErrInvalidOption   = errors.New("winning option does not belong to market")
	ErrNoOptionMatch   = errors.New("no option label matches reported outcome")
)

type Service struct {
	db        *sql.DB
	wallets   wallets.Wallets
	ledger    ledger.Ledger
	markets   markets.Markets
	bets      bets.Bets
	publisher events.Publisher
}

func New(db *sql.DB, publisher events.Publisher) *Service {
	return &Service{
		db:        db,
		wallets:   pgwallets.New(db),
		ledger:    pgledger.New(db),
		markets:   pgmarkets.New(db),
		bets:      pgbets.New(db),
		publisher: publisher,
	}
}

// CloseMarket moves an open market to closed, ending bet placement.
func (s *Service) CloseMarket(ctx context.Context, marketID string) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.markets.TransitionStatus(tx, marketID, markets.StatusOpen, markets.StatusClosed)
	})
	if err != nil {
		return fmt.Errorf("close market: %w", err)
	}

	return nil
}

// Settle resolves a closed market: pending bets on the winning option are
// paid out at their locked odds, all others are marked lost. Settling an
// already-settled market is a safe no-op, never a double credit.
func (s *Service) Settle(ctx context.Context, marketID, winningOptionID string) error {
	var (
		result      contract.MarketSettled
		alreadyDone bool
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		market, options, err := s.markets.LockWithOptions(tx, marketID)
		if err != nil {
			return fmt.Errorf("lock market: %w", err)
		}

		if market.Status == markets.StatusSettled {
			alreadyDone = true
			return nil
		}

		if market.Status != markets.StatusClosed {
			return ErrMarketNotClosed
		}

		var winLabel string
		found := false

		for _, o := range options {
			if o.ID == winningOptionID {
				winLabel = o.Label
				found = true
				break
			}
		}

		if !found {
			return ErrInvalidOption
		}

		err = s.markets.TransitionStatus(tx, marketID, markets.StatusClosed, markets.StatusSettled)
		if err != nil {
			return fmt.Errorf("transition to settled: %w", err)
		}

		err = s.markets.SetResult(tx, marketID, winLabel)
		if err != nil {
			return fmt.Errorf("set result: %w", err)
		}

		pending, err := s.bets.LockPendingByMarket(tx, marketID)
		if err != nil {
			return fmt.Errorf("lock pending bets: %w", err)
		}

		result = contract.MarketSettled{
			MarketID:        marketID,
			WinningOptionID: winningOptionID,
			Result:          winLabel,
		}

		for _, b := range pending {
			if b.BetOptionID == winningOptionID {
				payout := engine.Payout(b.Amount, b.OddsAtPlacement)

				err = s.bets.Finalize(tx, b.ID, bets.StatusWon, payout)
				if err != nil {
					return fmt.Errorf("finalize won bet %s: %w", b.ID, err)
				}

				err = s.wallets.Credit(tx, b.UserID, payout)
				if err != nil {
					return fmt.Errorf("credit winnings for bet %s: %w", b.ID, err)
				}

				err = s.ledger.Insert(tx, b.UserID, ledger.EntryWin, payout,
					fmt.Sprintf("Winnings: %s", winLabel))
				if err != nil {
					return fmt.Errorf("ledger win entry for bet %s: %w", b.ID, err)
				}

				result.WonBets++
				result.TotalPayout += payout
			} else {
				err = s.bets.Finalize(tx, b.ID, bets.StatusLost, 0)
				if err != nil {
					return fmt.Errorf("finalize lost bet %s: %w", b.ID, err)
				}

				result.LostBets++
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("settle market: %w", err)
	}

	if alreadyDone {
		slog.Info("market already settled, skipping", "market_id", marketID)
		return nil
	}

	metrics.MarketsSettled.Inc()
	metrics.PayoutPaise.Add(float64(result.TotalPayout))

	slog.Info("market settled",
		"market_id", marketID,
		"result", result.Result,
		"won_bets", result.WonBets,
		"lost_bets", result.LostBets,
		"total_payout", result.TotalPayout,
	)

	result.SettledAt = time.Now().UTC()

	perr := s.publisher.PublishMarketSettled(ctx, result)
	if perr != nil {
		slog.Warn("publish market_settled failed", "market_id", marketID, "error", perr)
	}

	return nil
}

// SettleByOutcome resolves the unsettled market of the given type for a
// match from an externally reported outcome name. An open market is closed
// first: a finished match means betting must stop regardless. If no option
// label matches the name, or the fuzzy fallback is ambiguous, settlement
// is skipped for manual resolution.
func (s *Service) SettleByOutcome(ctx context.Context, matchID string, typ markets.Type, outcomeName string) error {
	if outcomeName == "" {
		return nil
	}

	market, options, err := s.markets.FindUnsettledByMatchType(ctx, matchID, typ)
	if err != nil {
		if errors.Is(err, markets.ErrMarketNotFound) {
			return nil
		}

		return fmt.Errorf("find market: %w", err)
	}

	optionID, ok := MatchOption(options, outcomeName)
	if !ok {
		slog.Warn("no unambiguous option for reported outcome",
			"match_id", matchID,
			"market_id", market.ID,
			"market_type", typ,
			"outcome", outcomeName,
		)

		return fmt.Errorf("market %s, outcome %q: %w", market.ID, outcomeName, ErrNoOptionMatch)
	}

	if market.Status == markets.StatusOpen {
		err = s.CloseMarket(ctx, market.ID)
		if err != nil && !errors.Is(err, markets.ErrStatusConflict) {
			return err
		}
	}

	return s.Settle(ctx, market.ID, optionID)
}
