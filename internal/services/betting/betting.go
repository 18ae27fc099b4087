// Package betting implements the bet placement and void protocols. Every
// mutation runs in a single database transaction: the wallet debit, the
// ledger entry, the bet row and the pool increment commit or abort
// together, with the market row lock serializing concurrent placements on
// the same market.
package betting

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
	"github.com/rvidyarthi/crickpool/internal/quotes"
	"github.com/rvidyarthi/crickpool/internal/repos/bets"
	pgbets "github.com/rvidyarthi/crickpool/internal/repos/bets/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/ledger"
	pgledger "github.com/rvidyarthi/crickpool/internal/repos/ledger/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	pgmarkets "github.com/rvidyarthi/crickpool/internal/repos/markets/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/matches"
	pgmatches "github.com/rvidyarthi/crickpool/internal/repos/matches/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
	pgwallets "github.com/rvidyarthi/crickpool/internal/repos/wallets/postgres"
	contract "github.com/rvidyarthi/crickpool/pkg/contracts/events"
)

type Service struct {
	db        *sql.DB
	wallets   wallets.Wallets
	ledger    ledger.Ledger
	markets   markets.Markets
	matches   matches.Matches
	bets      bets.Bets
	publisher events.Publisher
	quotes    *quotes.Cache
	cfg       Config
}

func New(db *sql.DB, publisher events.Publisher, qc *quotes.Cache, cfg Config) *Service {
	return &Service{
		db:        db,
		wallets:   pgwallets.New(db),
		ledger:    pgledger.New(db),
		markets:   pgmarkets.New(db),
		matches:   pgmatches.New(db),
		bets:      pgbets.New(db),
		publisher: publisher,
		quotes:    qc,
		cfg:       cfg,
	}
}

// PlaceBet validates and records a wager. The odds are computed inside the
// transaction against the locked pool state with the incoming stake
// applied, then stored on the bet row and never recalculated.
func (s *Service) PlaceBet(ctx context.Context, userID, marketID, optionID string, amount int64) (string, float64, error) {
	if amount < s.cfg.MinStake {
		return "", 0, ErrInvalidAmount
	}

	var (
		betID    string
		odds     float64
		poolOpts []engine.Option
		edgePct  float64
	)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		market, options, err := s.markets.LockWithOptions(tx, marketID)
		if err != nil {
			return fmt.Errorf("lock market: %w", err)
		}

		if market.Status != markets.StatusOpen {
			return ErrMarketNotOpen
		}

		poolOpts = toEngineOptions(options)
		if !containsOption(poolOpts, optionID) {
			return ErrInvalidOption
		}

		err = s.wallets.Debit(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}

		err = s.ledger.Insert(tx, userID, ledger.EntryBet, -amount,
			fmt.Sprintf("Bet placed on market %s", marketID))
		if err != nil {
			return fmt.Errorf("ledger bet entry: %w", err)
		}

		odds = engine.ComputeOdds(poolOpts, optionID, amount, market.HouseEdgePct)
		edgePct = market.HouseEdgePct

		betID, err = s.bets.Insert(tx, userID, marketID, optionID, amount, odds)
		if err != nil {
			return fmt.Errorf("insert bet: %w", err)
		}

		err = s.markets.IncrementOptionPool(tx, optionID, amount)
		if err != nil {
			return fmt.Errorf("increment pool: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("place bet: %w", err)
	}

	metrics.BetsPlaced.Inc()

	perr := s.publisher.PublishBetPlaced(ctx, contract.BetPlaced{
		BetID:           betID,
		UserID:          userID,
		MarketID:        marketID,
		BetOptionID:     optionID,
		Amount:          amount,
		OddsAtPlacement: odds,
		PlacedAt:        time.Now().UTC(),
	})
	if perr != nil {
		slog.Warn("publish bet_placed failed", "bet_id", betID, "error", perr)
	}

	s.refreshQuotes(ctx, marketID, poolOpts, optionID, amount, edgePct)

	return betID, odds, nil
}

// Quote prices a hypothetical stake without placing it. Quotes at the
// reference stake are served from cache when available.
func (s *Service) Quote(ctx context.Context, marketID, optionID string, amount int64) (float64, error) {
	if amount == s.cfg.MinStake {
		odds, ok := s.quotes.Get(ctx, marketID, optionID)
		if ok {
			return odds, nil
		}
	}

	market, options, err := s.markets.GetWithOptions(ctx, marketID)
	if err != nil {
		return 0, fmt.Errorf("get market: %w", err)
	}

	if market.Status != markets.StatusOpen {
		return 0, ErrMarketNotOpen
	}

	opts := toEngineOptions(options)
	if !containsOption(opts, optionID) {
		return 0, ErrInvalidOption
	}

	return engine.ComputeOdds(opts, optionID, amount, market.HouseEdgePct), nil
}

// VoidBet refunds a pending bet and marks it void. Whether the stake is
// also removed from the option pool is a policy decision (see Config).
func (s *Service) VoidBet(ctx context.Context, betID string) (int64, error) {
	var refunded int64
	var userID string

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		b, err := s.bets.LockPending(tx, betID)
		if err != nil {
			if errors.Is(err, bets.ErrNotPending) {
				return ErrNotVoidable
			}

			return fmt.Errorf("lock bet: %w", err)
		}

		err = s.wallets.Credit(tx, b.UserID, b.Amount)
		if err != nil {
			return fmt.Errorf("credit refund: %w", err)
		}

		err = s.ledger.Insert(tx, b.UserID, ledger.EntryRefund, b.Amount,
			"Refund: bet voided by admin")
		if err != nil {
			return fmt.Errorf("ledger refund entry: %w", err)
		}

		err = s.bets.Finalize(tx, betID, bets.StatusVoid, 0)
		if err != nil {
			return fmt.Errorf("finalize void: %w", err)
		}

		if s.cfg.VoidRestoresPool {
			err = s.markets.IncrementOptionPool(tx, b.BetOptionID, -b.Amount)
			if err != nil {
				return fmt.Errorf("restore pool: %w", err)
			}
		}

		refunded = b.Amount
		userID = b.UserID

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("void bet: %w", err)
	}

	metrics.BetsVoided.Inc()

	perr := s.publisher.PublishBetVoided(ctx, contract.BetVoided{
		BetID:    betID,
		UserID:   userID,
		Refunded: refunded,
		VoidedAt: time.Now().UTC(),
	})
	if perr != nil {
		slog.Warn("publish bet_voided failed", "bet_id", betID, "error", perr)
	}

	return refunded, nil
}

// Exposure returns the total stake locked in the user's pending bets.
func (s *Service) Exposure(ctx context.Context, userID string) (int64, error) {
	exposure, err := s.bets.PendingExposureByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("pending exposure: %w", err)
	}

	return exposure, nil
}

func (s *Service) ListUserBets(ctx context.Context, userID string, limit int) ([]bets.Bet, error) {
	list, err := s.bets.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user bets: %w", err)
	}

	return list, nil
}

// refreshQuotes pushes post-placement display odds into the cache,
// best-effort. poolOpts still holds the pre-placement totals.
func (s *Service) refreshQuotes(ctx context.Context, marketID string, poolOpts []engine.Option, placedOption string, amount int64, edgePct float64) {
	for i := range poolOpts {
		if poolOpts[i].ID == placedOption {
			poolOpts[i].TotalAmountBet += amount
		}
	}

	err := s.quotes.Refresh(ctx, marketID, poolOpts, edgePct, s.cfg.MinStake)
	if err != nil {
		slog.Warn("refresh quote cache failed", "market_id", marketID, "error", err)
	}
}

func toEngineOptions(options []markets.Option) []engine.Option {
	out := make([]engine.Option, len(options))
	for i, o := range options {
		out[i] = engine.Option{ID: o.ID, TotalAmountBet: o.TotalAmountBet}
	}

	return out
}

func containsOption(options []engine.Option, optionID string) bool {
	for _, o := range options {
		if o.ID == optionID {
			return true
		}
	}

	return false
}
