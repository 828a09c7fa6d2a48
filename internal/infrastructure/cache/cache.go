package cache

import (
	"context"
	"encoding/json"
	"time"

	"folio-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const holdingsPrefix = "holdings:"

// HoldingsCache caches holdings listings in Redis, keyed by security filter
// and evaluation mode. A nil client makes every operation a pass-through, so
// the API works without Redis configured.
type HoldingsCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func key(filter string, evaluated bool) string {
	if filter == "" {
		filter = "all"
	}
	mode := "raw"
	if evaluated {
		mode = "evaluated"
	}
	return holdingsPrefix + filter + ":" + mode
}

// Get returns the cached listing, or (nil, false) on miss, error or nil client.
func (c *HoldingsCache) Get(ctx context.Context, filter string, evaluated bool) ([]domain.Holding, bool) {
	if c == nil || c.Rdb == nil {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, key(filter, evaluated)).Bytes()
	if err != nil {
		return nil, false
	}
	var holdings []domain.Holding
	if err := json.Unmarshal(b, &holdings); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable holdings cache entry")
		return nil, false
	}
	return holdings, true
}

// Set stores the listing. Failures are logged, never surfaced; the cache is
// an optimization, not a source of truth.
func (c *HoldingsCache) Set(ctx context.Context, filter string, evaluated bool, holdings []domain.Holding) {
	if c == nil || c.Rdb == nil {
		return
	}
	b, err := json.Marshal(holdings)
	if err != nil {
		return
	}
	if err := c.Rdb.Set(ctx, key(filter, evaluated), b, c.TTL).Err(); err != nil {
		log.Warn().Err(err).Msg("holdings cache set failed")
	}
}

// Invalidate drops every cached holdings listing. Called after any trade
// admission or security mutation.
func (c *HoldingsCache) Invalidate(ctx context.Context) {
	if c == nil || c.Rdb == nil {
		return
	}
	keys, err := c.Rdb.Keys(ctx, holdingsPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.Rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("holdings cache invalidation failed")
	}
}
