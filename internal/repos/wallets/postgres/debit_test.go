package wallets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/infra/pgtestutil"
	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
)

func seedProfile(t *testing.T, db *sql.DB, balance int64) string {
	t.Helper()

	id := uuid.NewString()

	_, err := db.Exec(`
		INSERT INTO profiles (id, balance) VALUES ($1, $2)
	`, id, balance)
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	return id
}

func TestWallets_Debit_Table(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		seedBalance int64
		seedUser    bool
		amount      int64
		wantBalance int64
		wantErr     error
	}

	tests := []tc{
		{
			name:        "sufficient_funds",
			seedBalance: 1_000,
			seedUser:    true,
			amount:      250,
			wantBalance: 750,
		},
		{
			name:        "exact_to_zero",
			seedBalance: 300,
			seedUser:    true,
			amount:      300,
			wantBalance: 0,
		},
		{
			name:        "insufficient_balance_unchanged",
			seedBalance: 200,
			seedUser:    true,
			amount:      300,
			wantBalance: 200,
			wantErr:     wallets.ErrInsufficientBalance,
		},
		{
			name:     "user_missing",
			seedUser: false,
			amount:   100,
			wantErr:  wallets.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			userID := uuid.NewString()
			if tt.seedUser {
				userID = seedProfile(t, db, tt.seedBalance)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.Debit(tx, userID, tt.amount)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("debit: %v", err)
			}

			err = tx.Commit()
			if err != nil {
				t.Fatalf("commit: %v", err)
			}

			got, err := repo.GetBalance(ctx, userID)
			if err != nil {
				t.Fatalf("get balance: %v", err)
			}

			if got != tt.wantBalance {
				t.Fatalf("final balance = %d, want %d", got, tt.wantBalance)
			}
		})
	}
}

func TestWallets_Credit(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	userID := seedProfile(t, db, 500)
	repo := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = repo.Credit(tx, userID, 1_500)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := repo.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	if got != 2_000 {
		t.Fatalf("balance = %d, want 2000", got)
	}
}

func TestWallets_Credit_UserMissing(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	tx, err := db.BeginTx(t.Context(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = repo.Credit(tx, uuid.NewString(), 100)
	if !errors.Is(err, wallets.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
