package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testClient returns a Redis client scoped to DB 15, skipping when no
// server is reachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "render:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func TestRenderCache_SetAndGet(t *testing.T) {
	rc := NewRenderCache(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := rc.Get(ctx, "render:t1:visit_summary:v1:abc"); ok {
		t.Error("expected miss before set")
	}

	doc := []byte("%PDF-1.3 test")
	rc.Set(ctx, "render:t1:visit_summary:v1:abc", doc)

	got, ok := rc.Get(ctx, "render:t1:visit_summary:v1:abc")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(doc) {
		t.Errorf("document mismatch: got %q", got)
	}
}

func TestRenderCache_InvalidateTemplate(t *testing.T) {
	rc := NewRenderCache(testClient(t), time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "render:t1:invoice:v1:aaa", []byte("a"))
	rc.Set(ctx, "render:t1:invoice:v2:bbb", []byte("b"))
	rc.Set(ctx, "render:t2:invoice:v1:ccc", []byte("c"))

	rc.InvalidateTemplate(ctx, "t1", "invoice")

	if _, ok := rc.Get(ctx, "render:t1:invoice:v1:aaa"); ok {
		t.Error("expected t1 v1 entry invalidated")
	}
	if _, ok := rc.Get(ctx, "render:t1:invoice:v2:bbb"); ok {
		t.Error("expected t1 v2 entry invalidated")
	}
	if _, ok := rc.Get(ctx, "render:t2:invoice:v1:ccc"); !ok {
		t.Error("expected other tenant's entry untouched")
	}
}

func TestNewRenderCache_DefaultTTL(t *testing.T) {
	rc := NewRenderCache(nil, 0)
	if rc.ttl != DefaultRenderTTL {
		t.Errorf("expected default ttl %v, got %v", DefaultRenderTTL, rc.ttl)
	}
}
