package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"zscore-backtest/internal/model"
)

// RedisCache shares price histories between processes. Values are JSON.
// Failures are logged and treated as misses so a Redis outage only costs a refetch.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration, log zerolog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	log.Info().Str("addr", addr).Dur("ttl", ttl).Msg("connected to redis")
	return &RedisCache{client: client, ttl: ttl, log: log.With().Str("component", "redis").Logger()}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (model.PriceSeries, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	var series model.PriceSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return series, true
}

func (r *RedisCache) Set(ctx context.Context, key string, series model.PriceSeries) {
	raw, err := json.Marshal(series)
	if err != nil {
		r.log.Warn().Err(err).Msg("encode cache entry")
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
