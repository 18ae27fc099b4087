package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/repos/matches"
)

var _ matches.Matches = (*matchesRepo)(nil)

type matchesRepo struct{ db *sql.DB }

func New(db *sql.DB) *matchesRepo {
	return &matchesRepo{db: db}
}

const matchColumns = `id, team_a, team_b, match_date, venue, status,
	feed_match_id, feed_slug, live_score_a, live_score_b, live_overs_a, live_overs_b, updated_at`

func (r *matchesRepo) Create(ctx context.Context, m *matches.Match) (string, error) {
	matchID := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (id, team_a, team_b, match_date, venue, status, feed_match_id, feed_slug)
		VALUES ($1, $2, $3, $4, $5, 'upcoming', $6, $7)
	`, matchID, m.TeamA, m.TeamB, m.MatchDate, m.Venue, m.FeedMatchID, m.FeedSlug)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}

	return matchID, nil
}

func (r *matchesRepo) Get(ctx context.Context, matchID string) (*matches.Match, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, matchID)

	m, err := scanMatch(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, matches.ErrMatchNotFound
		}

		return nil, fmt.Errorf("get match: %w", err)
	}

	return m, nil
}

func (r *matchesRepo) List(ctx context.Context) ([]matches.Match, error) {
	return r.queryMatches(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY match_date DESC`)
}

func (r *matchesRepo) ListLiveWithFeed(ctx context.Context) ([]matches.Match, error) {
	return r.queryMatches(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE status = 'live'
		  AND feed_match_id IS NOT NULL
		ORDER BY match_date
	`)
}

func (r *matchesRepo) UpdateStatus(ctx context.Context, matchID string, status matches.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, matchID, status)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}

	return checkAffected(res)
}

func (r *matchesRepo) UpdateScore(ctx context.Context, matchID string, s matches.ScoreUpdate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET live_score_a = $2, live_score_b = $3,
		    live_overs_a = $4, live_overs_b = $5,
		    updated_at = now()
		WHERE id = $1
	`, matchID, s.ScoreA, s.ScoreB, s.OversA, s.OversB)
	if err != nil {
		return fmt.Errorf("update match score: %w", err)
	}

	return checkAffected(res)
}

func (r *matchesRepo) Delete(tx *sql.Tx, matchID string) error {
	res, err := tx.Exec(`DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return matches.ErrMatchNotFound
	}

	return nil
}

func scanMatch(scan func(...any) error) (*matches.Match, error) {
	var m matches.Match

	err := scan(&m.ID, &m.TeamA, &m.TeamB, &m.MatchDate, &m.Venue, &m.Status,
		&m.FeedMatchID, &m.FeedSlug, &m.LiveScoreA, &m.LiveScoreB,
		&m.LiveOversA, &m.LiveOversB, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *matchesRepo) queryMatches(ctx context.Context, query string) ([]matches.Match, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var list []matches.Match

	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}

		list = append(list, *m)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return list, nil
}
