package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zscore-backtest/internal/data"
	"zscore-backtest/internal/model"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Ticker != "msft" {
		t.Fatalf("unexpected ticker: %s", cfg.Ticker)
	}
	if cfg.Window != 20 || cfg.Threshold != 1.5 {
		t.Fatalf("unexpected window/threshold: %d %.2f", cfg.Window, cfg.Threshold)
	}
	if cfg.PeriodsPerYear != 252 {
		t.Fatalf("expected default periods_per_year 252, got %d", cfg.PeriodsPerYear)
	}
	if cfg.PnLMode != "price" {
		t.Fatalf("expected default pnl_mode price, got %s", cfg.PnLMode)
	}
	if cfg.Data.Cache.TTL != 30*time.Minute {
		t.Fatalf("unexpected cache ttl: %s", cfg.Data.Cache.TTL)
	}
	if cfg.Data.Cache.RedisAddr != "localhost:6379" {
		t.Fatalf("expected default redis addr, got %s", cfg.Data.Cache.RedisAddr)
	}

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params returned error: %v", err)
	}
	if p.Deviation != model.DeviationSample || p.StartingPosition != model.PositionLong {
		t.Fatalf("unexpected params: %+v", p)
	}
	start, end, err := cfg.Dates()
	if err != nil {
		t.Fatalf("Dates returned error: %v", err)
	}
	if start.Format(time.DateOnly) != "2023-02-01" || end.Format(time.DateOnly) != "2023-12-29" {
		t.Fatalf("unexpected dates: %s %s", start, end)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExplicitZeroWindowIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("window: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, model.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, model.ErrInvalidThreshold},
		{"zero periods", func(c *Config) { c.PeriodsPerYear = 0 }, model.ErrInvalidPeriods},
		{"bad deviation", func(c *Config) { c.Deviation = "robust" }, nil},
		{"bad position", func(c *Config) { c.StartingPosition = "sideways" }, nil},
		{"reversed dates", func(c *Config) { c.StartDate, c.EndDate = "2024-01-01", "2023-01-01" }, nil},
		{"bad date", func(c *Config) { c.StartDate = "01/02/2023" }, nil},
		{"file without path", func(c *Config) { c.Data.Source = "file" }, nil},
		{"unknown source", func(c *Config) { c.Data.Source = "bloomberg" }, nil},
		{"unknown cache", func(c *Config) { c.Data.Cache.Backend = "memcached" }, nil},
	}
	for _, tc := range cases {
		c := Default()
		tc.mutate(c)
		err := c.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.is != nil && !errors.Is(err, tc.is) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.is, err)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ZSCORE_TICKER", "NVDA")
	t.Setenv("ZSCORE_WINDOW", "15")
	t.Setenv("ZSCORE_THRESHOLD", "2.5")
	t.Setenv("REDIS_ADDR", "cache:6379")

	c := Default()
	c.ApplyEnv()
	if c.Ticker != "NVDA" || c.Window != 15 || c.Threshold != 2.5 || c.Data.Cache.RedisAddr != "cache:6379" {
		t.Fatalf("env overrides not applied: %+v", c)
	}

	t.Setenv("ZSCORE_WINDOW", "ten")
	c.ApplyEnv()
	if err := c.Validate(); !errors.Is(err, model.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow for unparseable env window, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	c, err := FromEnv()
	if err == nil {
		t.Fatal("expected error for missing CONFIG_PATH file")
	}
	if c == nil || c.LogLevel != Default().LogLevel {
		t.Fatalf("expected defaults alongside the error, got %+v", c)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("window: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", bad)
	if c, err := FromEnv(); err == nil || c == nil {
		t.Fatalf("expected defaults and a validation error, got %+v, %v", c, err)
	}

	t.Setenv("CONFIG_PATH", "testdata/config.yaml")
	c, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if c.LogLevel != "debug" {
		t.Fatalf("expected file log level, got %q", c.LogLevel)
	}

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ZSCORE_WINDOW", "ten")
	if c, err := FromEnv(); !errors.Is(err, model.ErrInvalidWindow) || c == nil {
		t.Fatalf("expected ErrInvalidWindow with defaults, got %+v, %v", c, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("ZSCORE_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("ZSCORE_TEST_DOTENV", "")
	os.Unsetenv("ZSCORE_TEST_DOTENV")
	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("ZSCORE_TEST_DOTENV"); got != "loaded" {
		t.Fatalf("expected dotenv value, got %q", got)
	}
}

func TestMerge(t *testing.T) {
	w, th := 5, 0.75
	c := Default().Merge(Overrides{Window: &w, Threshold: &th, PnLMode: "return"})
	if c.Window != 5 || c.Threshold != 0.75 || c.PnLMode != "return" {
		t.Fatalf("unexpected merge result: %+v", c)
	}
	if Default().Window != 10 {
		t.Fatalf("Merge must not touch the defaults")
	}
}

func TestPriceSourceFromConfig(t *testing.T) {
	c := Default()
	c.Data.Source = "file"
	c.Data.Path = t.TempDir()
	c.Data.Cache.Backend = "memory"

	src, closeFn, err := c.PriceSource(context.Background(), zerolog.Nop())
	if err != nil {
		t.Fatalf("PriceSource returned error: %v", err)
	}
	defer closeFn()
	if _, ok := src.(*data.CachedSource); !ok {
		t.Fatalf("expected a cached source, got %T", src)
	}
	if src.Name() != "file" {
		t.Fatalf("unexpected source name %s", src.Name())
	}
}
