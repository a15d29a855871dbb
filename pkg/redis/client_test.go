package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	counts  map[string]int64
	expired map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}, expired: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expired[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.counts, key)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestIncrWithTTLSetsExpiryOnFirstHit(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}

	count, err := client.IncrWithTTL(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if store.expired["k"] != time.Minute {
		t.Fatalf("expected TTL set on first increment, got %v", store.expired["k"])
	}

	count, err = client.IncrWithTTL(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("second incr: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if len(store.expired) != 1 {
		t.Fatal("TTL must only be set once per window")
	}
}

func TestRateLimitKeyNamespacing(t *testing.T) {
	client := &Client{}
	key := client.RateLimitKey("register:ip:1.2.3.4")
	if key != "ecommapp:rate_limit:register:ip:1.2.3.4" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if _, err := client.Incr(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from uninitialized client")
	}
}
