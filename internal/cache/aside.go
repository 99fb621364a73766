package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	TagsKey = "tags:all"
	TagsTTL = 5 * time.Minute
)

// Aside loads key into dest, calling fetch to fill dest on a miss and storing
// the result for ttl. Redis failures degrade to fetch; only fetch errors are
// returned.
func (c *Cache) Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if !c.Enabled() {
		return fetch()
	}

	if c.lookup(ctx, key, dest) {
		observability.CacheLookups.WithLabelValues(family(key), "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(family(key), "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return nil
	}

	ctx, span := observability.StartRedisOp(ctx, "set")
	defer span.End()
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		span.RecordError(err)
		middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return nil
}

func (c *Cache) lookup(ctx context.Context, key string, dest interface{}) bool {
	ctx, span := observability.StartRedisOp(ctx, "get")
	defer span.End()

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		span.RecordError(err)
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache entry unreadable, refetching", "key", key, "error", err)
		return false
	}
	return true
}

// Invalidate drops key. Errors are logged and otherwise ignored.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	ctx, span := observability.StartRedisOp(ctx, "del")
	defer span.End()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		span.RecordError(err)
		middleware.Logger.WarnContext(ctx, "cache invalidate failed", "key", key, "error", err)
	}
}

func family(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}
