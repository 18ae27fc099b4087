// Package scores consumes the external live-score feed and drives
// auto-settlement when a match finishes.
package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Result is the feed's view of one match. Status "live" means in progress,
// "past" means finished.
type Result struct {
	Status      string      `json:"status"`
	ScoreA      string      `json:"score_a"`
	ScoreB      string      `json:"score_b"`
	OversA      string      `json:"overs_a"`
	OversB      string      `json:"overs_b"`
	WinningTeam string      `json:"winning_team"`
	TopBatters  []TopBatter `json:"top_batters"`
}

type TopBatter struct {
	PlayerName string `json:"player_name"`
	Runs       int    `json:"runs"`
}

// TopScorer returns the batter with the most runs, or "" when the feed
// reported none.
func (r *Result) TopScorer() string {
	var best *TopBatter

	for i := range r.TopBatters {
		if best == nil || r.TopBatters[i].Runs > best.Runs {
			best = &r.TopBatters[i]
		}
	}

	if best == nil {
		return ""
	}

	return best.PlayerName
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch pulls the current state of one match from the feed.
func (c *Client) Fetch(ctx context.Context, feedMatchID, feedSlug string) (*Result, error) {
	params := url.Values{}
	params.Set("matchId", feedMatchID)

	if feedSlug != "" {
		params.Set("slug", feedSlug)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var res Result

	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	return &res, nil
}
