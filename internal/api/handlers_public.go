package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rvidyarthi/crickpool/internal/services/admin"
)

// HandlerProvider wraps the services and exposes HTTP handlers.
type HandlerProvider struct {
	deps Deps
}

// NewHandler returns a new handler provider.
func NewHandler(deps Deps) *HandlerProvider {
	return &HandlerProvider{deps: deps}
}

func parseUUIDParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", fmt.Errorf("missing %s", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}

	return id.String(), nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	return &s.String
}

// ListMatchesHandler handles GET /api/matches
func (h *HandlerProvider) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Admin.ListMatches(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]matchResponse, 0, len(list))
	for _, mm := range list {
		out = append(out, toMatchResponse(mm))
	}

	writeJSON(w, http.StatusOK, out)
}

func toMatchResponse(mm admin.MatchWithMarkets) matchResponse {
	resp := matchResponse{
		ID:         mm.Match.ID,
		TeamA:      mm.Match.TeamA,
		TeamB:      mm.Match.TeamB,
		MatchDate:  mm.Match.MatchDate.Format(time.RFC3339),
		Venue:      nullable(mm.Match.Venue),
		Status:     string(mm.Match.Status),
		LiveScoreA: nullable(mm.Match.LiveScoreA),
		LiveScoreB: nullable(mm.Match.LiveScoreB),
		LiveOversA: nullable(mm.Match.LiveOversA),
		LiveOversB: nullable(mm.Match.LiveOversB),
		Markets:    make([]marketResponse, 0, len(mm.Markets)),
	}

	for _, m := range mm.Markets {
		mr := marketResponse{
			ID:           m.ID,
			MarketType:   string(m.Type),
			HouseEdgePct: m.HouseEdgePct,
			Status:       string(m.Status),
			Result:       nullable(m.Result),
			Options:      make([]optionResponse, 0, len(m.Options)),
		}

		for _, o := range m.Options {
			mr.Options = append(mr.Options, optionResponse{
				ID:             o.ID,
				Label:          o.Label,
				TotalAmountBet: o.TotalAmountBet,
			})
		}

		resp.Markets = append(resp.Markets, mr)
	}

	return resp
}

// QuoteHandler handles GET /api/markets/{marketID}/quote?option=...&amount=...
func (h *HandlerProvider) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseUUIDParam(r, "marketID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid marketID in path")
		return
	}

	optionID := r.URL.Query().Get("option")

	_, err = uuid.Parse(optionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid option id")
		return
	}

	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive integer (paise)")
		return
	}

	odds, err := h.deps.Betting.Quote(r.Context(), marketID, optionID, amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"market_id": marketID,
		"option_id": optionID,
		"amount":    amount,
		"odds":      odds,
	})
}

// PlaceBetHandler handles POST /api/users/{userID}/bets
func (h *HandlerProvider) PlaceBetHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userID in path")
		return
	}

	var req placeBetRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	betID, odds, err := h.deps.Betting.PlaceBet(r.Context(), userID, req.MarketID, req.BetOptionID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placeBetResponse{BetID: betID, Odds: odds})
}

// GetBalanceHandler handles GET /api/users/{userID}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userID in path")
		return
	}

	bal, err := h.deps.Wallet.GetBalance(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	exposure, err := h.deps.Betting.Exposure(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"balance":  bal,
		"exposure": exposure,
		"display":  fmt.Sprintf("%.2f", float64(bal)/100.0),
	})
}

// GetLedgerHandler handles GET /api/users/{userID}/ledger
func (h *HandlerProvider) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userID in path")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.deps.Wallet.Ledger(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledgerEntryResponse{
			ID:          e.ID,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// ListBetsHandler handles GET /api/users/{userID}/bets
func (h *HandlerProvider) ListBetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userID in path")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	list, err := h.deps.Betting.ListUserBets(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]betResponse, 0, len(list))
	for _, b := range list {
		out = append(out, betResponse{
			ID:              b.ID,
			MarketID:        b.MarketID,
			BetOptionID:     b.BetOptionID,
			Amount:          b.Amount,
			OddsAtPlacement: b.OddsAtPlacement,
			Status:          string(b.Status),
			Payout:          b.Payout,
			CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, out)
}
