// Package quotes caches the most recently computed display odds per bet
// option in Redis. The cache is advisory: placement always prices against
// the pool state read inside its own transaction, and a stale or missing
// quote only costs a recompute.
package quotes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rvidyarthi/crickpool/internal/engine"
)

const defaultTTL = 30 * time.Second

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func Connect(ctx context.Context, addr string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: defaultTTL}, nil
}

func key(marketID, optionID string) string {
	return "quote:" + marketID + ":" + optionID
}

// Get returns the cached quote for an option, or ok=false on miss.
// A nil cache always misses.
func (c *Cache) Get(ctx context.Context, marketID, optionID string) (float64, bool) {
	if c == nil {
		return 0, false
	}

	raw, err := c.rdb.Get(ctx, key(marketID, optionID)).Result()
	if err != nil {
		return 0, false
	}

	odds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return odds, true
}

// Refresh recomputes and stores the quote for every option of a market at
// the given reference stake. Best-effort: the first write error aborts.
func (c *Cache) Refresh(ctx context.Context, marketID string, options []engine.Option, houseEdgePct float64, stake int64) error {
	if c == nil {
		return nil
	}

	for _, o := range options {
		odds := engine.ComputeOdds(options, o.ID, stake, houseEdgePct)

		err := c.rdb.Set(ctx, key(marketID, o.ID),
			strconv.FormatFloat(odds, 'f', 4, 64), c.ttl).Err()
		if err != nil {
			return fmt.Errorf("set quote %s: %w", o.ID, err)
		}
	}

	return nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	return c.rdb.Close()
}
