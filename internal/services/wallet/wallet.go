// Package wallet implements top-ups and wallet reads. Balances are only
// ever changed alongside an append-only ledger entry in the same
// transaction; the balance column is a materialized view of the ledger.
package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rvidyarthi/crickpool/internal/infra/pgutils"
	"github.com/rvidyarthi/crickpool/internal/repos/ledger"
	pgledger "github.com/rvidyarthi/crickpool/internal/repos/ledger/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
	pgwallets "github.com/rvidyarthi/crickpool/internal/repos/wallets/postgres"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service struct {
	db      *sql.DB
	wallets wallets.Wallets
	ledger  ledger.Ledger
}

func New(db *sql.DB) *Service {
	return &Service{
		db:      db,
		wallets: pgwallets.New(db),
		ledger:  pgledger.New(db),
	}
}

// Topup credits a wallet by admin action, after cash changes hands outside
// the system.
func (s *Service) Topup(ctx context.Context, userID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if description == "" {
		description = fmt.Sprintf("Manual top-up: ₹%d.%02d", amount/100, amount%100)
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.wallets.Credit(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		err = s.ledger.Insert(tx, userID, ledger.EntryTopup, amount, description)
		if err != nil {
			return fmt.Errorf("ledger topup entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("topup: %w", err)
	}

	return nil
}

func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.wallets.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (s *Service) Ledger(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, err := s.ledger.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return entries, nil
}
