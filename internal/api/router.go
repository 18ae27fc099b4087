package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rvidyarthi/crickpool/internal/services/admin"
	"github.com/rvidyarthi/crickpool/internal/services/betting"
	"github.com/rvidyarthi/crickpool/internal/services/settlement"
	"github.com/rvidyarthi/crickpool/internal/services/wallet"
)

type Deps struct {
	Betting    *betting.Service
	Settlement *settlement.Service
	Wallet     *wallet.Service
	Admin      *admin.Service

	// AdminToken guards the admin routes (Authorization: Bearer <token>).
	AdminToken string
}

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(deps Deps) http.Handler {
	h := NewHandler(deps)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/matches", h.ListMatchesHandler)
		r.Get("/markets/{marketID}/quote", h.QuoteHandler)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/balance", h.GetBalanceHandler)
			r.Get("/ledger", h.GetLedgerHandler)
			r.Get("/bets", h.ListBetsHandler)
			r.Post("/bets", h.PlaceBetHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(deps.AdminToken))

			r.Post("/matches", h.CreateMatchHandler)
			r.Patch("/matches/{matchID}", h.UpdateMatchHandler)
			r.Delete("/matches/{matchID}", h.DeleteMatchHandler)

			r.Post("/markets", h.CreateMarketHandler)
			r.Patch("/markets/{marketID}", h.CloseMarketHandler)
			r.Delete("/markets/{marketID}", h.DeleteMarketHandler)

			r.Post("/settle", h.SettleHandler)
			r.Post("/topup", h.TopupHandler)
			r.Delete("/bets/{betID}", h.VoidBetHandler)
		})
	})

	return r
}
