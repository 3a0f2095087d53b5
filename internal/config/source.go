package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"zscore-backtest/internal/data"
)

// PriceSource builds the configured retrieval chain. The returned close
// function releases cache resources and is always non-nil.
func (c *Config) PriceSource(ctx context.Context, log zerolog.Logger) (data.PriceSource, func(), error) {
	var src data.PriceSource
	switch c.Data.Source {
	case "file":
		src = &data.FileSource{Path: c.Data.Path}
	case "yahoo", "":
		src = data.NewYahooClient(log, c.Data.Adjusted)
	default:
		return nil, func() {}, fmt.Errorf("unsupported data.source %q", c.Data.Source)
	}

	switch c.Data.Cache.Backend {
	case "memory":
		mc := data.NewMemoryCache(c.Data.Cache.TTL)
		return data.NewCachedSource(src, mc, log), mc.Close, nil
	case "redis":
		rc, err := data.NewRedisCache(ctx, c.Data.Cache.RedisAddr, c.Data.Cache.RedisPassword, c.Data.Cache.TTL, log)
		if err != nil {
			// An unreachable cache should not stop a backtest.
			log.Warn().Err(err).Msg("redis cache disabled")
			return src, func() {}, nil
		}
		return data.NewCachedSource(src, rc, log), func() { _ = rc.Close() }, nil
	default:
		return src, func() {}, nil
	}
}
