package redis

import (
	"context"
	"encoding/json"
	"time"

	"aslan-support-client/internal/domain/model"
)

// QuotaCache keeps the last known quota reading so the display has a value
// before the first fetch after a restart.
type QuotaCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewQuotaCache(client RedisClient, ttl time.Duration) *QuotaCache {
	return &QuotaCache{client: client, ttl: ttl}
}

func (c *QuotaCache) StoreQuota(ctx context.Context, quota *model.TokenQuota) error {
	key := "token_quota:" + quota.UserID
	data, err := json.Marshal(quota)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}

func (c *QuotaCache) GetQuota(ctx context.Context, userID string) (*model.TokenQuota, error) {
	key := "token_quota:" + userID
	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var quota model.TokenQuota
	if err := json.Unmarshal([]byte(data), &quota); err != nil {
		return nil, err
	}
	_ = c.client.Expire(ctx, key, c.ttl)
	return &quota, nil
}
