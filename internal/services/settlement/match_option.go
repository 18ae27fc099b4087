package settlement

import (
	"strings"

	"github.com/rvidyarthi/crickpool/internal/repos/markets"
)

// MatchOption resolves an externally reported team or player name to a bet
// option. Exact case-insensitive label equality wins outright; otherwise a
// bidirectional substring fallback is tried, and only a unique fallback
// match is accepted. The system never guesses between two partially
// matching options.
func MatchOption(options []markets.Option, name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}

	for _, o := range options {
		if strings.ToLower(strings.TrimSpace(o.Label)) == needle {
			return o.ID, true
		}
	}

	var fuzzy []string

	for _, o := range options {
		label := strings.ToLower(strings.TrimSpace(o.Label))
		if label == "" {
			continue
		}

		if strings.Contains(label, needle) || strings.Contains(needle, label) {
			fuzzy = append(fuzzy, o.ID)
		}
	}

	if len(fuzzy) == 1 {
		return fuzzy[0], true
	}

	return "", false
}
