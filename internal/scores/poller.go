package scores

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	"github.com/rvidyarthi/crickpool/internal/repos/matches"
	"github.com/rvidyarthi/crickpool/internal/services/settlement"
)

// Poller ticks over all live matches that carry a feed id, refreshes
// their live-score columns, and settles winner and top-scorer markets
// once the feed reports the match finished.
type Poller struct {
	client     *Client
	matches    matches.Matches
	settlement *settlement.Service
	interval   time.Duration
}

func NewPoller(client *Client, repo matches.Matches, svc *settlement.Service, interval time.Duration) *Poller {
	return &Poller{
		client:     client,
		matches:    repo,
		settlement: svc,
		interval:   interval,
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.syncAll(ctx)
		}
	}
}

func (p *Poller) syncAll(ctx context.Context) {
	live, err := p.matches.ListLiveWithFeed(ctx)
	if err != nil {
		slog.Error("list live matches failed", "error", err)
		return
	}

	for _, m := range live {
		err = p.syncMatch(ctx, m)
		if err != nil {
			slog.Error("sync match failed", "match_id", m.ID, "error", err)
		}
	}
}

func (p *Poller) syncMatch(ctx context.Context, m matches.Match) error {
	res, err := p.client.Fetch(ctx, m.FeedMatchID.String, m.FeedSlug.String)
	if err != nil {
		return err
	}

	err = p.matches.UpdateScore(ctx, m.ID, matches.ScoreUpdate{
		ScoreA: res.ScoreA,
		ScoreB: res.ScoreB,
		OversA: res.OversA,
		OversB: res.OversB,
	})
	if err != nil {
		return err
	}

	if res.Status != "past" {
		return nil
	}

	err = p.matches.UpdateStatus(ctx, m.ID, matches.StatusCompleted)
	if err != nil {
		return err
	}

	slog.Info("match completed, auto-settling",
		"match_id", m.ID, "winning_team", res.WinningTeam)

	// A failed or ambiguous name match is left for manual settlement;
	// anything else aborts the sync so it retries next tick.
	err = p.settlement.SettleByOutcome(ctx, m.ID, markets.TypeWinner, res.WinningTeam)
	if err != nil && !errors.Is(err, settlement.ErrNoOptionMatch) {
		return err
	}

	err = p.settlement.SettleByOutcome(ctx, m.ID, markets.TypeTopScorer, res.TopScorer())
	if err != nil && !errors.Is(err, settlement.ErrNoOptionMatch) {
		return err
	}

	return nil
}
