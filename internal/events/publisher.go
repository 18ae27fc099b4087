package events

import (
	"context"

	"github.com/rvidyarthi/crickpool/pkg/contracts/events"
)

// Publisher fans out domain events after the owning transaction commits.
// Publishing is best-effort: the datastore is the source of truth and a
// failed publish never rolls back a committed bet or settlement.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetVoided(ctx context.Context, e events.BetVoided) error
	PublishMarketSettled(ctx context.Context, e events.MarketSettled) error
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishBetPlaced(context.Context, events.BetPlaced) error         { return nil }
func (Noop) PublishBetVoided(context.Context, events.BetVoided) error         { return nil }
func (Noop) PublishMarketSettled(context.Context, events.MarketSettled) error { return nil }
