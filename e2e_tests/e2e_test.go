// End-to-end flow against a running API instance with dev seed data
// applied. Point E2E_BASE_URL at the server and set E2E_ADMIN_TOKEN to
// the instance's admin token; the suite is skipped when the token is
// not provided.
package e2etests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	timeout        = 5 * time.Second
	waitReady      = 20 * time.Second

	// Dev seed fixtures (cmd/migrator/test_data).
	userRavi = "22222222-2222-4222-8222-222222222222"
)

var httpClient = &http.Client{Timeout: timeout}

func TestE2E_BettingFlow(t *testing.T) {
	adminToken := os.Getenv("E2E_ADMIN_TOKEN")
	if adminToken == "" {
		t.Skip("E2E_ADMIN_TOKEN not set; skipping e2e suite")
	}

	c := &client{baseURL: baseURL(), adminToken: adminToken}

	waitUntilReady(t, c)

	// Admin sets up a fresh match with a winner market.
	var matchID string

	t.Run("admin_creates_match", func(t *testing.T) {
		code, body := c.post(t, "/api/admin/matches", true, map[string]any{
			"team_a":     "India",
			"team_b":     "Australia",
			"match_date": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
			"venue":      "Eden Gardens",
		})
		if code != http.StatusOK {
			t.Fatalf("create match: want 200, got %d (%s)", code, body)
		}

		matchID = stringField(t, body, "match_id")
	})

	var marketID string

	t.Run("admin_creates_market", func(t *testing.T) {
		code, body := c.post(t, "/api/admin/markets", true, map[string]any{
			"match_id":    matchID,
			"market_type": "winner",
			"options":     []string{"India", "Australia"},
		})
		if code != http.StatusOK {
			t.Fatalf("create market: want 200, got %d (%s)", code, body)
		}

		marketID = stringField(t, body, "market_id")
	})

	var optionID string

	t.Run("market_lists_options", func(t *testing.T) {
		code, body := c.get(t, "/api/matches", false)
		if code != http.StatusOK {
			t.Fatalf("list matches: want 200, got %d (%s)", code, body)
		}

		optionID = findOptionID(t, body, marketID, "India")
	})

	startBalance := getBalance(t, c, userRavi)

	t.Run("admin_topup", func(t *testing.T) {
		code, body := c.post(t, "/api/admin/topup", true, map[string]any{
			"user_id": userRavi,
			"amount":  50_000,
		})
		if code != http.StatusOK {
			t.Fatalf("topup: want 200, got %d (%s)", code, body)
		}

		got := getBalance(t, c, userRavi)
		if got != startBalance+50_000 {
			t.Fatalf("balance after topup: want %d, got %d", startBalance+50_000, got)
		}
	})

	t.Run("quote_without_placing", func(t *testing.T) {
		code, body := c.get(t, "/api/markets/"+marketID+"/quote?option="+optionID+"&amount=1000", false)
		if code != http.StatusOK {
			t.Fatalf("quote: want 200, got %d (%s)", code, body)
		}
	})

	var betID string

	t.Run("user_places_bet", func(t *testing.T) {
		code, body := c.post(t, "/api/users/"+userRavi+"/bets", false, map[string]any{
			"market_id":     marketID,
			"bet_option_id": optionID,
			"amount":        10_000,
		})
		if code != http.StatusOK {
			t.Fatalf("place bet: want 200, got %d (%s)", code, body)
		}

		betID = stringField(t, body, "bet_id")

		got := getBalance(t, c, userRavi)
		if got != startBalance+40_000 {
			t.Fatalf("balance after bet: want %d, got %d", startBalance+40_000, got)
		}
	})

	t.Run("bet_on_closed_market_rejected", func(t *testing.T) {
		code, body := c.patch(t, "/api/admin/markets/"+marketID, true, map[string]any{
			"status": "closed",
		})
		if code != http.StatusOK {
			t.Fatalf("close market: want 200, got %d (%s)", code, body)
		}

		code, _ = c.post(t, "/api/users/"+userRavi+"/bets", false, map[string]any{
			"market_id":     marketID,
			"bet_option_id": optionID,
			"amount":        10_000,
		})
		if code != http.StatusBadRequest {
			t.Fatalf("bet on closed market: want 400, got %d", code)
		}
	})

	t.Run("admin_settles_market", func(t *testing.T) {
		code, body := c.post(t, "/api/admin/settle", true, map[string]any{
			"market_id":         marketID,
			"winning_option_id": optionID,
		})
		if code != http.StatusOK {
			t.Fatalf("settle: want 200, got %d (%s)", code, body)
		}

		// Sole bet on the winning side floors at 1.01: payout 10100.
		got := getBalance(t, c, userRavi)
		if got != startBalance+40_000+10_100 {
			t.Fatalf("balance after settle: want %d, got %d", startBalance+50_100, got)
		}
	})

	t.Run("settle_is_idempotent", func(t *testing.T) {
		code, body := c.post(t, "/api/admin/settle", true, map[string]any{
			"market_id":         marketID,
			"winning_option_id": optionID,
		})
		if code != http.StatusOK {
			t.Fatalf("repeat settle: want 200, got %d (%s)", code, body)
		}

		got := getBalance(t, c, userRavi)
		if got != startBalance+50_100 {
			t.Fatalf("balance changed on repeat settle: got %d", got)
		}
	})

	t.Run("settled_bet_not_voidable", func(t *testing.T) {
		code, _ := c.del(t, "/api/admin/bets/"+betID, true)
		if code != http.StatusBadRequest {
			t.Fatalf("void settled bet: want 400, got %d", code)
		}
	})

	t.Run("admin_routes_need_token", func(t *testing.T) {
		code, _ := c.post(t, "/api/admin/topup", false, map[string]any{
			"user_id": userRavi,
			"amount":  100,
		})
		if code != http.StatusUnauthorized {
			t.Fatalf("no token: want 401, got %d", code)
		}

		bad := &client{baseURL: c.baseURL, adminToken: "wrong-token"}

		code, _ = bad.post(t, "/api/admin/topup", true, map[string]any{
			"user_id": userRavi,
			"amount":  100,
		})
		if code != http.StatusForbidden {
			t.Fatalf("bad token: want 403, got %d", code)
		}
	})

	t.Run("cleanup_match", func(t *testing.T) {
		code, body := c.del(t, "/api/admin/matches/"+matchID, true)
		if code != http.StatusOK {
			t.Fatalf("delete match: want 200, got %d (%s)", code, body)
		}
	})
}

type client struct {
	baseURL    string
	adminToken string
}

func baseURL() string {
	u := os.Getenv("E2E_BASE_URL")
	if u != "" {
		return u
	}

	return defaultBaseURL
}

func (c *client) do(t *testing.T, method, path string, admin bool, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if admin {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	return resp.StatusCode, raw
}

func (c *client) get(t *testing.T, path string, admin bool) (int, []byte) {
	return c.do(t, http.MethodGet, path, admin, nil)
}

func (c *client) post(t *testing.T, path string, admin bool, payload any) (int, []byte) {
	return c.do(t, http.MethodPost, path, admin, payload)
}

func (c *client) patch(t *testing.T, path string, admin bool, payload any) (int, []byte) {
	return c.do(t, http.MethodPatch, path, admin, payload)
}

func (c *client) del(t *testing.T, path string, admin bool) (int, []byte) {
	return c.do(t, http.MethodDelete, path, admin, nil)
}

func getBalance(t *testing.T, c *client, userID string) int64 {
	t.Helper()

	code, body := c.get(t, "/api/users/"+userID+"/balance", false)
	if code != http.StatusOK {
		t.Fatalf("get balance: want 200, got %d (%s)", code, body)
	}

	var out struct {
		Balance int64 `json:"balance"`
	}

	err := json.Unmarshal(body, &out)
	if err != nil {
		t.Fatalf("decode balance: %v (%s)", err, body)
	}

	return out.Balance
}

func stringField(t *testing.T, body []byte, field string) string {
	t.Helper()

	var out map[string]any

	err := json.Unmarshal(body, &out)
	if err != nil {
		t.Fatalf("decode response: %v (%s)", err, body)
	}

	v, ok := out[field].(string)
	if !ok || v == "" {
		t.Fatalf("missing %q in response: %s", field, body)
	}

	return v
}

// findOptionID digs the option with the given label out of the public
// matches listing.
func findOptionID(t *testing.T, body []byte, marketID, label string) string {
	t.Helper()

	var matches []struct {
		Markets []struct {
			ID      string `json:"id"`
			Options []struct {
				ID    string `json:"id"`
				Label string `json:"label"`
			} `json:"options"`
		} `json:"markets"`
	}

	err := json.Unmarshal(body, &matches)
	if err != nil {
		t.Fatalf("decode matches: %v (%s)", err, body)
	}

	for _, m := range matches {
		for _, mkt := range m.Markets {
			if mkt.ID != marketID {
				continue
			}

			for _, o := range mkt.Options {
				if o.Label == label {
					return o.ID
				}
			}
		}
	}

	t.Fatalf("option %q not found for market %s", label, marketID)

	return ""
}

func waitUntilReady(t *testing.T, c *client) {
	t.Helper()

	deadline := time.Now().Add(waitReady)

	for time.Now().Before(deadline) {
		code, _ := healthProbe(c)
		if code == http.StatusOK {
			return
		}

		time.Sleep(500 * time.Millisecond)
	}

	t.Fatalf("API at %s not ready within %s", c.baseURL, waitReady)
}

func healthProbe(c *client) (int, error) {
	resp, err := http.Get(c.baseURL + "/healthz") //nolint:noctx
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
