package betting

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/events"
	"github.com/rvidyarthi/crickpool/internal/infra/pgtestutil"
)

const testMinStake = 100

func newTestService(db *sql.DB) *Service {
	return New(db, events.Noop{}, nil, Config{MinStake: testMinStake})
}

func seedUser(t *testing.T, db *sql.DB, balance int64) string {
	t.Helper()

	id := uuid.NewString()

	_, err := db.Exec(`INSERT INTO profiles (id, balance) VALUES ($1, $2)`, id, balance)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if balance != 0 {
		_, err = db.Exec(`
			INSERT INTO wallet_transactions (user_id, type, amount, description)
			VALUES ($1, 'topup', $2, 'seed')
		`, id, balance)
		if err != nil {
			t.Fatalf("seed topup entry: %v", err)
		}
	}

	return id
}

// seedMarket creates an open winner market with two options and returns
// (matchID, marketID, optionIDs).
func seedMarket(t *testing.T, db *sql.DB, status string, pools ...int64) (string, string, []string) {
	t.Helper()

	matchID := uuid.NewString()

	_, err := db.Exec(`
		INSERT INTO matches (id, team_a, team_b, match_date)
		VALUES ($1, 'India', 'Australia', now())
	`, matchID)
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}

	marketID := uuid.NewString()

	_, err = db.Exec(`
		INSERT INTO markets (id, match_id, market_type, house_edge_pct, status)
		VALUES ($1, $2, 'winner', 5, $3)
	`, marketID, matchID, status)
	if err != nil {
		t.Fatalf("seed market: %v", err)
	}

	labels := []string{"India", "Australia"}
	optionIDs := make([]string, 0, len(labels))

	for i, label := range labels {
		var pool int64
		if i < len(pools) {
			pool = pools[i]
		}

		optID := uuid.NewString()

		_, err = db.Exec(`
			INSERT INTO bet_options (id, market_id, label, total_amount_bet)
			VALUES ($1, $2, $3, $4)
		`, optID, marketID, label, pool)
		if err != nil {
			t.Fatalf("seed option: %v", err)
		}

		optionIDs = append(optionIDs, optID)
	}

	return matchID, marketID, optionIDs
}

func balanceOf(t *testing.T, db *sql.DB, userID string) int64 {
	t.Helper()

	var bal int64

	err := db.QueryRow(`SELECT balance FROM profiles WHERE id = $1`, userID).Scan(&bal)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}

	return bal
}

func ledgerSumOf(t *testing.T, db *sql.DB, userID string) int64 {
	t.Helper()

	var sum int64

	err := db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		t.Fatalf("read ledger sum: %v", err)
	}

	return sum
}

// requireLedgerMatchesBalance asserts the wallet invariant: the profile
// balance always equals the sum of the user's ledger entries.
func requireLedgerMatchesBalance(t *testing.T, db *sql.DB, userID string) {
	t.Helper()

	bal := balanceOf(t, db, userID)
	sum := ledgerSumOf(t, db, userID)

	if bal != sum {
		t.Fatalf("balance %d != ledger sum %d", bal, sum)
	}
}

func poolOf(t *testing.T, db *sql.DB, optionID string) int64 {
	t.Helper()

	var pool int64

	err := db.QueryRow(`
		SELECT total_amount_bet FROM bet_options WHERE id = $1
	`, optionID).Scan(&pool)
	if err != nil {
		t.Fatalf("read pool: %v", err)
	}

	return pool
}

func TestPlaceBet(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	userID := seedUser(t, db, 100_000)
	_, marketID, opts := seedMarket(t, db, "open", 10_000, 20_000)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	betID, odds, err := svc.PlaceBet(ctx, userID, marketID, opts[0], 5_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	if betID == "" {
		t.Fatal("empty bet id")
	}

	// Pool 10000+20000, stake 5000 on option A: (35000/15000)*0.95 = 2.2167
	if odds != 2.2167 {
		t.Fatalf("odds = %v, want 2.2167", odds)
	}

	if got := balanceOf(t, db, userID); got != 95_000 {
		t.Fatalf("balance = %d, want 95000", got)
	}

	if got := poolOf(t, db, opts[0]); got != 15_000 {
		t.Fatalf("pool = %d, want 15000", got)
	}

	requireLedgerMatchesBalance(t, db, userID)

	list, err := svc.ListUserBets(ctx, userID, 10)
	if err != nil {
		t.Fatalf("list bets: %v", err)
	}

	if len(list) != 1 || list[0].ID != betID || list[0].OddsAtPlacement != odds {
		t.Fatalf("unexpected bet list: %+v", list)
	}

	exposure, err := svc.Exposure(ctx, userID)
	if err != nil {
		t.Fatalf("exposure: %v", err)
	}

	if exposure != 5_000 {
		t.Fatalf("exposure = %d, want 5000", exposure)
	}
}

func TestPlaceBet_Rejections(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	userID := seedUser(t, db, 1_000)
	_, openMarket, openOpts := seedMarket(t, db, "open", 0, 0)
	_, closedMarket, closedOpts := seedMarket(t, db, "closed", 0, 0)
	_, _, foreignOpts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	tests := []struct {
		name     string
		marketID string
		optionID string
		amount   int64
		wantErr  error
	}{
		{
			name:     "below_min_stake",
			marketID: openMarket,
			optionID: openOpts[0],
			amount:   testMinStake - 1,
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "market_closed",
			marketID: closedMarket,
			optionID: closedOpts[0],
			amount:   500,
			wantErr:  ErrMarketNotOpen,
		},
		{
			name:     "option_from_other_market",
			marketID: openMarket,
			optionID: foreignOpts[0],
			amount:   500,
			wantErr:  ErrInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.PlaceBet(ctx, userID, tt.marketID, tt.optionID, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Nothing was written by any rejected attempt.
	if got := balanceOf(t, db, userID); got != 1_000 {
		t.Fatalf("balance = %d, want 1000", got)
	}

	var betCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM bets`).Scan(&betCount); err != nil {
		t.Fatal(err)
	}

	if betCount != 0 {
		t.Fatalf("bet count = %d, want 0", betCount)
	}
}

func TestPlaceBet_InsufficientBalanceRollsBack(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	userID := seedUser(t, db, 400)
	_, marketID, opts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	_, _, err := svc.PlaceBet(ctx, userID, marketID, opts[0], 500)
	if err == nil {
		t.Fatal("expected insufficient balance error")
	}

	if got := balanceOf(t, db, userID); got != 400 {
		t.Fatalf("balance = %d, want 400", got)
	}

	if got := poolOf(t, db, opts[0]); got != 0 {
		t.Fatalf("pool = %d, want 0", got)
	}

	requireLedgerMatchesBalance(t, db, userID)
}

func TestVoidBet(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	userID := seedUser(t, db, 10_000)
	_, marketID, opts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	betID, _, err := svc.PlaceBet(ctx, userID, marketID, opts[0], 2_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	refunded, err := svc.VoidBet(ctx, betID)
	if err != nil {
		t.Fatalf("void bet: %v", err)
	}

	if refunded != 2_000 {
		t.Fatalf("refunded = %d, want 2000", refunded)
	}

	if got := balanceOf(t, db, userID); got != 10_000 {
		t.Fatalf("balance = %d, want 10000", got)
	}

	requireLedgerMatchesBalance(t, db, userID)

	// Pool keeps the voided stake under the default policy.
	if got := poolOf(t, db, opts[0]); got != 2_000 {
		t.Fatalf("pool = %d, want 2000", got)
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM bets WHERE id = $1`, betID).Scan(&status); err != nil {
		t.Fatal(err)
	}

	if status != "void" {
		t.Fatalf("status = %q, want void", status)
	}

	// Voiding twice must not refund twice.
	_, err = svc.VoidBet(ctx, betID)
	if !errors.Is(err, ErrNotVoidable) {
		t.Fatalf("want ErrNotVoidable, got %v", err)
	}

	if got := balanceOf(t, db, userID); got != 10_000 {
		t.Fatalf("balance after double void = %d, want 10000", got)
	}
}

func TestVoidBet_RestorePoolPolicy(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := New(db, events.Noop{}, nil, Config{MinStake: testMinStake, VoidRestoresPool: true})
	userID := seedUser(t, db, 10_000)
	_, marketID, opts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	betID, _, err := svc.PlaceBet(ctx, userID, marketID, opts[0], 2_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	_, err = svc.VoidBet(ctx, betID)
	if err != nil {
		t.Fatalf("void bet: %v", err)
	}

	if got := poolOf(t, db, opts[0]); got != 0 {
		t.Fatalf("pool = %d, want 0", got)
	}
}

func TestDeleteMarket_VoidsPendingBets(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	alice := seedUser(t, db, 10_000)
	bob := seedUser(t, db, 10_000)
	_, marketID, opts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	_, _, err := svc.PlaceBet(ctx, alice, marketID, opts[0], 3_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	_, _, err = svc.PlaceBet(ctx, bob, marketID, opts[1], 4_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	err = svc.DeleteMarket(ctx, marketID)
	if err != nil {
		t.Fatalf("delete market: %v", err)
	}

	for _, userID := range []string{alice, bob} {
		if got := balanceOf(t, db, userID); got != 10_000 {
			t.Fatalf("balance = %d, want 10000", got)
		}

		requireLedgerMatchesBalance(t, db, userID)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM markets WHERE id = $1`, marketID).Scan(&count); err != nil {
		t.Fatal(err)
	}

	if count != 0 {
		t.Fatal("market should be deleted")
	}

	// Bets went with the market via cascade.
	if err := db.QueryRow(`SELECT COUNT(*) FROM bets WHERE market_id = $1`, marketID).Scan(&count); err != nil {
		t.Fatal(err)
	}

	if count != 0 {
		t.Fatal("bets should cascade with the market")
	}
}

func TestDeleteMatch_CascadesMarkets(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	userID := seedUser(t, db, 10_000)
	matchID, marketID, opts := seedMarket(t, db, "open", 0, 0)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	_, _, err := svc.PlaceBet(ctx, userID, marketID, opts[0], 1_500)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	err = svc.DeleteMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("delete match: %v", err)
	}

	if got := balanceOf(t, db, userID); got != 10_000 {
		t.Fatalf("balance = %d, want 10000", got)
	}

	requireLedgerMatchesBalance(t, db, userID)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM markets WHERE match_id = $1`, matchID).Scan(&count); err != nil {
		t.Fatal(err)
	}

	if count != 0 {
		t.Fatal("markets should cascade with the match")
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newTestService(db)
	_, marketID, opts := seedMarket(t, db, "open", 10_000, 20_000)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	odds, err := svc.Quote(ctx, marketID, opts[0], 5_000)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	if odds != 2.2167 {
		t.Fatalf("odds = %v, want 2.2167", odds)
	}

	// A quote writes nothing.
	var betCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM bets`).Scan(&betCount); err != nil {
		t.Fatal(err)
	}

	if betCount != 0 {
		t.Fatalf("bet count = %d, want 0", betCount)
	}

	_, closedMarket, closedOpts := seedMarket(t, db, "closed", 0, 0)

	_, err = svc.Quote(ctx, closedMarket, closedOpts[0], 5_000)
	if !errors.Is(err, ErrMarketNotOpen) {
		t.Fatalf("want ErrMarketNotOpen, got %v", err)
	}
}
