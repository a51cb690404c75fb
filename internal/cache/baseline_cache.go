package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BaselineCache stores the user's historical average stress score so a
// submission does not recompute it from the full check-in history.
type BaselineCache interface {
	Set(ctx context.Context, userID string, baseline float64) error
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, userID string) (*float64, error)
	Invalidate(ctx context.Context, userID string) error
}

type baselineCache struct {
	client *redis.Client
}

func NewBaselineCache(client *redis.Client) BaselineCache {
	return &baselineCache{client: client}
}

func (c *baselineCache) Set(ctx context.Context, userID string, baseline float64) error {
	return c.client.Set(ctx, "baseline:"+userID, strconv.FormatFloat(baseline, 'f', -1, 64), 6*time.Hour).Err()
}

func (c *baselineCache) Get(ctx context.Context, userID string) (*float64, error) {
	data, err := c.client.Get(ctx, "baseline:"+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	baseline, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return nil, err
	}
	return &baseline, nil
}

func (c *baselineCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "baseline:"+userID).Err()
}
