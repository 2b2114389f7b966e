package cachebackend

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a cache backend over a Redis instance, for deployments that need
// cache entries to survive process restarts. Grounded on
// internal/skills/redis_cache.go's Ping-validated construction and
// SCAN-based prefix invalidation.
type Redis struct {
	client redis.UniversalClient
}

// RedisOptions configures the underlying client.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis builds a Redis-backed cache backend and verifies connectivity.
func NewRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis cache backend ping: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("redis_cache_get_error")
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("redis_cache_set_error")
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) bool {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("redis_cache_delete_error")
		return false
	}
	return n > 0
}

func (r *Redis) Clear(ctx context.Context, prefix string) int {
	pattern := prefix + "*"
	if prefix == "" {
		pattern = "*"
	}
	n := 0
	iter := r.client.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Debug().Err(err).Str("key", iter.Val()).Msg("redis_cache_clear_error")
			continue
		}
		n++
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Msg("redis_cache_clear_scan_error")
	}
	return n
}

func (r *Redis) HealthCheck(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *Redis) Initialize(_ context.Context) error { return nil }

func (r *Redis) Close(_ context.Context) error { return r.client.Close() }
