package matches

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrMatchNotFound = errors.New("match not found")

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Match struct {
	ID          string
	TeamA       string
	TeamB       string
	MatchDate   time.Time
	Venue       sql.NullString
	Status      Status
	FeedMatchID sql.NullString
	FeedSlug    sql.NullString
	LiveScoreA  sql.NullString
	LiveScoreB  sql.NullString
	LiveOversA  sql.NullString
	LiveOversB  sql.NullString
	UpdatedAt   time.Time
}

// ScoreUpdate carries the live columns refreshed on every feed poll.
type ScoreUpdate struct {
	ScoreA string
	ScoreB string
	OversA string
	OversB string
}

type Matches interface {
	Create(ctx context.Context, m *Match) (string, error)
	Get(ctx context.Context, matchID string) (*Match, error)
	List(ctx context.Context) ([]Match, error)
	ListLiveWithFeed(ctx context.Context) ([]Match, error)
	UpdateStatus(ctx context.Context, matchID string, status Status) error
	UpdateScore(ctx context.Context, matchID string, s ScoreUpdate) error
	Delete(tx *sql.Tx, matchID string) error
}
