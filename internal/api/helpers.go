package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rvidyarthi/crickpool/internal/repos/bets"
	"github.com/rvidyarthi/crickpool/internal/repos/ledger"
	"github.com/rvidyarthi/crickpool/internal/repos/markets"
	"github.com/rvidyarthi/crickpool/internal/repos/matches"
	"github.com/rvidyarthi/crickpool/internal/repos/wallets"
	"github.com/rvidyarthi/crickpool/internal/services/betting"
	"github.com/rvidyarthi/crickpool/internal/services/settlement"
	"github.com/rvidyarthi/crickpool/internal/services/wallet"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a capped request body into dst and runs the struct
// validation tags. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	err = validate.Struct(dst)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}

// writeDomainError maps domain sentinels onto HTTP status codes:
// validation 400, not-found 404, state conflicts and insufficient
// balance 409, everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, betting.ErrInvalidAmount),
		errors.Is(err, betting.ErrInvalidOption),
		errors.Is(err, betting.ErrMarketNotOpen),
		errors.Is(err, betting.ErrNotVoidable),
		errors.Is(err, settlement.ErrInvalidOption),
		errors.Is(err, wallet.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, rootMessage(err))

	case errors.Is(err, markets.ErrMarketNotFound),
		errors.Is(err, matches.ErrMatchNotFound),
		errors.Is(err, bets.ErrBetNotFound),
		errors.Is(err, wallets.ErrUserNotFound),
		errors.Is(err, ledger.ErrUserNotFound):
		writeError(w, http.StatusNotFound, rootMessage(err))

	case errors.Is(err, wallets.ErrInsufficientBalance),
		errors.Is(err, settlement.ErrMarketNotClosed),
		errors.Is(err, markets.ErrStatusConflict):
		writeError(w, http.StatusConflict, rootMessage(err))

	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// rootMessage strips the wrapping context so only the domain message
// reaches the caller.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}

		err = unwrapped
	}
}
