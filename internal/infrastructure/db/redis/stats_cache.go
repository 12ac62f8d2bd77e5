package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spendsmart/expense-api/internal/core/ports"
)

const (
	statsKey = "admin:stats"
	statsTTL = time.Minute
)

// StatsCache caches the computed admin statistics document in Redis for a
// short TTL so repeated dashboard polls do not re-run the aggregation
// pipelines. Staleness within the TTL is accepted.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached stats document, or (nil, nil) on a cache miss.
func (c *StatsCache) Get(ctx context.Context) (*ports.StatsResult, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats ports.StatsResult
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, nil
}

// Set stores the stats document, expiring after statsTTL.
func (c *StatsCache) Set(ctx context.Context, stats *ports.StatsResult) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, raw, statsTTL).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}
