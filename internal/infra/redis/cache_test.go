package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aslan-support-client/internal/domain/model"
)

type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), expires: make(map[string]time.Duration)}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	f.expires[key] = expiration
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = expiration
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		delete(f.expires, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func (f *fakeRedis) ttlOf(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expires[key]
}

func TestSessionCache(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewSessionCache(client, time.Hour)

	session, err := model.NewSession("sess-1", "user-1", time.Now())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := cache.StoreSession(ctx, session); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := cache.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != session.ID || got.UserID != session.UserID || got.Status != session.Status {
		t.Errorf("mirror mismatch: got %+v", got)
	}

	t.Run("reading re-arms the TTL", func(t *testing.T) {
		client.mu.Lock()
		client.expires["support_session:sess-1"] = time.Minute
		client.mu.Unlock()
		if _, err := cache.GetSession(ctx, "sess-1"); err != nil {
			t.Fatalf("get: %v", err)
		}
		if ttl := client.ttlOf("support_session:sess-1"); ttl != time.Hour {
			t.Errorf("expected TTL re-armed to 1h, got %s", ttl)
		}
	})

	if err := cache.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cache.GetSession(ctx, "sess-1"); err == nil {
		t.Error("expected miss after delete")
	}
}

func TestQuotaCache(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewQuotaCache(client, 30*time.Minute)

	quota := &model.TokenQuota{UserID: "user-1", MonthlyLimit: 1000, Consumed: 420}
	if err := cache.StoreQuota(ctx, quota); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := cache.GetQuota(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Consumed != 420 || got.MonthlyLimit != 1000 {
		t.Errorf("snapshot mismatch: got %+v", got)
	}

	t.Run("reading re-arms the TTL", func(t *testing.T) {
		client.mu.Lock()
		client.expires["token_quota:user-1"] = time.Second
		client.mu.Unlock()
		if _, err := cache.GetQuota(ctx, "user-1"); err != nil {
			t.Fatalf("get: %v", err)
		}
		if ttl := client.ttlOf("token_quota:user-1"); ttl != 30*time.Minute {
			t.Errorf("expected TTL re-armed to 30m, got %s", ttl)
		}
	})

	if _, err := cache.GetQuota(ctx, "user-9"); err == nil {
		t.Error("expected miss for unknown user")
	}
}
