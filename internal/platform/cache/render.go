// Package cache provides the Redis-backed render cache. Entries are
// keyed by the full render identity (tenant, template code and version,
// context digest) so a cached document can never be served for a
// different input. The cache is strictly optional: every failure path
// degrades to a fresh render.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultRenderTTL is how long an emitted document stays cached.
const DefaultRenderTTL = 10 * time.Minute

// Connect creates a Redis client and verifies the connection with a
// ping.
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", addr).Msg("render cache connected")
	return client, nil
}

// RenderCache stores emitted PDF documents in Redis with a TTL.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl}
}

// Get retrieves a cached document. A backend error counts as a miss.
func (rc *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	doc, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("render cache get failed")
		return nil, false
	}
	return doc, true
}

// Set stores a document with the configured TTL, best-effort.
func (rc *RenderCache) Set(ctx context.Context, key string, doc []byte) {
	if err := rc.client.Set(ctx, key, doc, rc.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("render cache set failed")
	}
}

// InvalidateTemplate drops every cached render of one template in one
// tenant, across all versions and contexts. Called after a template is
// updated or deleted.
func (rc *RenderCache) InvalidateTemplate(ctx context.Context, tenant, code string) {
	pattern := fmt.Sprintf("render:%s:%s:*", tenant, code)
	var cursor uint64
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("render cache scan failed")
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				log.Warn().Err(err).Msg("render cache delete failed")
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}
