package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zscore-backtest/internal/model"
)

// Cache stores retrieved price histories. It never stores backtest results.
type Cache interface {
	Get(ctx context.Context, key string) (model.PriceSeries, bool)
	Set(ctx context.Context, key string, series model.PriceSeries)
}

type cacheEntry struct {
	series    model.PriceSeries
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryCache starts a cleanup goroutine; call Close to stop it.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &MemoryCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a cached series if available and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (model.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.series.Clone(), true
}

func (c *MemoryCache) Set(_ context.Context, key string, series model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{
		series:    series.Clone(),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// CacheKey builds a deterministic key from the query parameters.
func CacheKey(source, ticker string, start, end time.Time) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s",
		source,
		NormalizeTicker(ticker),
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
	)
	hash := sha256.Sum256([]byte(keyStr))
	return "prices:" + hex.EncodeToString(hash[:])
}

// CachedSource consults the cache before delegating to the wrapped source.
type CachedSource struct {
	Source PriceSource
	Cache  Cache

	log zerolog.Logger
}

func NewCachedSource(src PriceSource, cache Cache, log zerolog.Logger) *CachedSource {
	return &CachedSource{Source: src, Cache: cache, log: log.With().Str("component", "cache").Logger()}
}

func (c *CachedSource) Name() string { return c.Source.Name() }

func (c *CachedSource) History(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	key := CacheKey(c.Source.Name(), ticker, start, end)
	if series, ok := c.Cache.Get(ctx, key); ok {
		c.log.Debug().Str("ticker", ticker).Int("bars", len(series)).Msg("cache hit")
		return series, nil
	}
	series, err := c.Source.History(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}
	c.Cache.Set(ctx, key, series)
	return series, nil
}
