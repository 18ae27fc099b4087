package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	"github.com/rvidyarthi/crickpool/internal/repos/matches"
	"github.com/rvidyarthi/crickpool/internal/services/admin"
)

// CreateMatchHandler handles POST /api/admin/matches
func (h *HandlerProvider) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchDate, err := time.Parse(time.RFC3339, req.MatchDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "match_date must be RFC3339")
		return
	}

	m := &matches.Match{
		TeamA:     req.TeamA,
		TeamB:     req.TeamB,
		MatchDate: matchDate,
		Venue:     sql.NullString{String: req.Venue, Valid: req.Venue != ""},
	}

	matchID, err := h.deps.Admin.CreateMatch(r.Context(), m, req.FeedURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"match_id": matchID})
}

// UpdateMatchHandler handles PATCH /api/admin/matches/{matchID}
func (h *HandlerProvider) UpdateMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseUUIDParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid matchID in path")
		return
	}

	var req updateMatchRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.deps.Admin.UpdateMatchStatus(r.Context(), matchID, matches.Status(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteMatchHandler handles DELETE /api/admin/matches/{matchID}.
// Every pending bet under the match is voided and refunded first.
func (h *HandlerProvider) DeleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseUUIDParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid matchID in path")
		return
	}

	err = h.deps.Betting.DeleteMatch(r.Context(), matchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateMarketHandler handles POST /api/admin/markets
func (h *HandlerProvider) CreateMarketHandler(w http.ResponseWriter, r *http.Request) {
	var req createMarketRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	edge := float64(admin.DefaultHouseEdgePct)
	if req.HouseEdgePct != nil {
		edge = *req.HouseEdgePct
	}

	marketID, err := h.deps.Admin.CreateMarket(r.Context(), req.MatchID,
		markets.Type(req.MarketType), edge, req.Options)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"market_id": marketID})
}

// CloseMarketHandler handles PATCH /api/admin/markets/{marketID}. The only
// accepted transition is open -> closed; settlement owns closed -> settled.
func (h *HandlerProvider) CloseMarketHandler(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseUUIDParam(r, "marketID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid marketID in path")
		return
	}

	var req updateMarketRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.deps.Settlement.CloseMarket(r.Context(), marketID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteMarketHandler handles DELETE /api/admin/markets/{marketID}
func (h *HandlerProvider) DeleteMarketHandler(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseUUIDParam(r, "marketID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid marketID in path")
		return
	}

	err = h.deps.Betting.DeleteMarket(r.Context(), marketID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SettleHandler handles POST /api/admin/settle
func (h *HandlerProvider) SettleHandler(w http.ResponseWriter, r *http.Request) {
	var req settleRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.deps.Settlement.Settle(r.Context(), req.MarketID, req.WinningOptionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TopupHandler handles POST /api/admin/topup
func (h *HandlerProvider) TopupHandler(w http.ResponseWriter, r *http.Request) {
	var req topupRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.deps.Wallet.Topup(r.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// VoidBetHandler handles DELETE /api/admin/bets/{betID}
func (h *HandlerProvider) VoidBetHandler(w http.ResponseWriter, r *http.Request) {
	betID, err := parseUUIDParam(r, "betID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid betID in path")
		return
	}

	refunded, err := h.deps.Betting.VoidBet(r.Context(), betID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "refunded": refunded})
}
