// Package admin implements match and market management.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/rvidyarthi/crickpool/internal/infra/pgutils"
	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	pgmarkets "github.com/rvidyarthi/crickpool/internal/repos/markets/postgres"
	"github.com/rvidyarthi/crickpool/internal/repos/matches"
	pgmatches "github.com/rvidyarthi/crickpool/internal/repos/matches/postgres"
)

const DefaultHouseEdgePct = 5

type Service struct {
	db      *sql.DB
	matches matches.Matches
	markets markets.Markets
}

func New(db *sql.DB) *Service {
	return &Service{
		db:      db,
		matches: pgmatches.New(db),
		markets: pgmarkets.New(db),
	}
}

// feedURLRe extracts the scorecard id and slug from a live-score site URL,
// e.g. .../scorecard/12345/team-a-vs-team-b/summary.
var feedURLRe = regexp.MustCompile(`/scorecard/(\d+)/(.+?)(?:/summary)?$`)

// CreateMatch inserts an upcoming match, parsing the optional feed URL
// into the identifiers the score poller needs.
func (s *Service) CreateMatch(ctx context.Context, m *matches.Match, feedURL string) (string, error) {
	if feedURL != "" {
		groups := feedURLRe.FindStringSubmatch(feedURL)
		if groups != nil {
			m.FeedMatchID = sql.NullString{String: groups[1], Valid: true}
			m.FeedSlug = sql.NullString{String: groups[2], Valid: true}
		}
	}

	matchID, err := s.matches.Create(ctx, m)
	if err != nil {
		return "", fmt.Errorf("create match: %w", err)
	}

	return matchID, nil
}

func (s *Service) UpdateMatchStatus(ctx context.Context, matchID string, status matches.Status) error {
	err := s.matches.UpdateStatus(ctx, matchID, status)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}

	return nil
}

// CreateMarket creates a market with its options in one transaction so a
// half-created market (no options) is never visible.
func (s *Service) CreateMarket(ctx context.Context, matchID string, typ markets.Type, houseEdgePct float64, labels []string) (string, error) {
	if len(labels) < 2 {
		return "", fmt.Errorf("market needs at least 2 options, got %d", len(labels))
	}

	_, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return "", fmt.Errorf("get match: %w", err)
	}

	var marketID string

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		marketID, err = s.markets.Create(tx, matchID, typ, houseEdgePct, labels)

		return err
	})
	if err != nil {
		return "", fmt.Errorf("create market: %w", err)
	}

	return marketID, nil
}

// MatchWithMarkets is the admin/list read model: a match with its markets
// and live pool totals.
type MatchWithMarkets struct {
	Match   matches.Match
	Markets []markets.MarketWithOptions
}

func (s *Service) ListMatches(ctx context.Context) ([]MatchWithMarkets, error) {
	ms, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]MatchWithMarkets, 0, len(ms))

	for _, m := range ms {
		mkts, err := s.markets.ListByMatch(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("list markets for match %s: %w", m.ID, err)
		}

		out = append(out, MatchWithMarkets{Match: m, Markets: mkts})
	}

	return out, nil
}

func (s *Service) GetMarket(ctx context.Context, marketID string) (*markets.Market, []markets.Option, error) {
	return s.markets.GetWithOptions(ctx, marketID)
}
