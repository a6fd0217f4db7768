package cache

import (
	"context"
	"fmt"
	"time"

	"webnovel/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Key builders. These are the only cache key formats the read path and the
// invalidator agree on.
func NovelKey(novelSlug string) string {
	return "novel:" + novelSlug
}

func ChapterKey(novelSlug, chapterSlug string) string {
	return fmt.Sprintf("chapter:%s:%s", novelSlug, chapterSlug)
}

// Invalidator deletes read-path cache entries after entitlement-affecting
// writes. It is constructor-injected into the services that need it, never a
// package-level singleton, so the purchase transaction can be tested with a
// nil or fake client. With no Redis configured every method is a no-op.
type Invalidator struct {
	client *redis.Client
}

// NewInvalidator connects to Redis. If addr is empty or the ping fails the
// returned invalidator fails open, matching how the rate limiter degrades.
func NewInvalidator(addr, password string, db int) *Invalidator {
	if addr == "" {
		return &Invalidator{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, cache invalidation disabled", "error", err)
		return &Invalidator{}
	}

	return &Invalidator{client: client}
}

// NewInvalidatorWithClient wraps an already configured client.
func NewInvalidatorWithClient(client *redis.Client) *Invalidator {
	return &Invalidator{client: client}
}

// Enabled reports whether a Redis backend is attached.
func (i *Invalidator) Enabled() bool {
	return i.client != nil
}

// Invalidate deletes the given keys. Best-effort: errors are logged, never
// returned, and the call must not run inside a store transaction.
func (i *Invalidator) Invalidate(ctx context.Context, keys ...string) {
	if i.client == nil || len(keys) == 0 {
		return
	}
	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		invalidationFailures.Inc()
		logger.Error("cache invalidation failed", "keys", keys, "error", err)
	}
}

// Get returns the cached payload for key, or nil on miss or error.
func (i *Invalidator) Get(ctx context.Context, key string) []byte {
	if i.client == nil {
		return nil
	}
	b, err := i.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return b
}

// Set stores a payload with a TTL. Best-effort.
func (i *Invalidator) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if i.client == nil {
		return
	}
	if err := i.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
	}
}
