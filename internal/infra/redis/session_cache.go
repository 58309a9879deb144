package redis

import (
	"context"
	"encoding/json"
	"time"

	"aslan-support-client/internal/domain/model"
)

// SessionCache mirrors the active session so a restarted client can show it
// before the history store answers.
type SessionCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionCache(client RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) StoreSession(ctx context.Context, session *model.Session) error {
	key := "support_session:" + session.ID
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}

func (c *SessionCache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	key := "support_session:" + sessionID
	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	// Reading the mirror keeps it alive for another TTL window.
	_ = c.client.Expire(ctx, key, c.ttl)
	return &session, nil
}

func (c *SessionCache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "support_session:"+sessionID)
}
