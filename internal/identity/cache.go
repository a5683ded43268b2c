package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache caches the full identity listing. Get reports a miss with ok=false;
// cache failures are never surfaced as listing failures.
//
// Every Invalidate advances the generation. Set stores a listing only while
// the generation still equals the one read before the listing was loaded, so
// a load that overlaps an invalidation never repopulates the cache.
type ListCache interface {
	Get(ctx context.Context) (idents []Identity, ok bool)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, idents []Identity)
	Invalidate(ctx context.Context) error
}

const (
	identityListKey       = "clubportal:identities:list"
	identityGenerationKey = "clubportal:identities:generation"
)

var errStaleListing = errors.New("identity listing generation changed")

// RedisListCache stores the identity listing as a JSON blob in Redis, next to
// a generation counter shared by every portal instance.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListCache creates a cache with the given entry lifetime.
func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

// Get returns the cached listing, if any.
func (c *RedisListCache) Get(ctx context.Context) ([]Identity, bool) {
	raw, err := c.client.Get(ctx, identityListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("identity cache read failed", "error", err)
		}
		return nil, false
	}

	var idents []Identity
	if err := json.Unmarshal(raw, &idents); err != nil {
		slog.Warn("identity cache entry is corrupt", "error", err)
		return nil, false
	}
	return idents, true
}

// Generation returns the current invalidation counter. A missing counter is 0.
func (c *RedisListCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, identityGenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading identity cache generation: %w", err)
	}
	return gen, nil
}

// Set stores the listing if no invalidation happened since generation was read.
// The check and the write run in one WATCH transaction.
func (c *RedisListCache) Set(ctx context.Context, generation int64, idents []Identity) {
	raw, err := json.Marshal(idents)
	if err != nil {
		slog.Warn("encoding identity cache entry", "error", err)
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, identityGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleListing
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, identityListKey, raw, c.ttl)
			return nil
		})
		return err
	}, identityGenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleListing), errors.Is(err, redis.TxFailedErr):
		slog.Debug("identity listing changed while loading, not cached")
	default:
		slog.Warn("identity cache write failed", "error", err)
	}
}

// Invalidate advances the generation and drops the cached listing.
func (c *RedisListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, identityGenerationKey)
		pipe.Del(ctx, identityListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating identity cache: %w", err)
	}
	return nil
}
