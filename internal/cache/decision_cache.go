package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"manova/internal/model"
)

// DecisionCache keeps the most recent trigger decision per user so the
// dashboard and chat layer can read it without re-running analysis.
type DecisionCache interface {
	Set(ctx context.Context, userID string, decision *model.TriggerDecision) error
	Get(ctx context.Context, userID string) (*model.TriggerDecision, error)
}

type decisionCache struct {
	client *redis.Client
}

func NewDecisionCache(client *redis.Client) DecisionCache {
	return &decisionCache{client: client}
}

func (c *decisionCache) Set(ctx context.Context, userID string, decision *model.TriggerDecision) error {
	data, err := json.Marshal(decision)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "decision:"+userID, data, 24*time.Hour).Err()
}

func (c *decisionCache) Get(ctx context.Context, userID string) (*model.TriggerDecision, error) {
	data, err := c.client.Get(ctx, "decision:"+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var decision model.TriggerDecision
	err = json.Unmarshal([]byte(data), &decision)
	return &decision, err
}
