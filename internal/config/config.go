package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"zscore-backtest/internal/data"
	"zscore-backtest/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Ticker    string `yaml:"ticker"`
	StartDate string `yaml:"start_date"` // YYYY-MM-DD, first analysis day
	EndDate   string `yaml:"end_date"`   // YYYY-MM-DD, inclusive

	Window           int     `yaml:"window"`
	Threshold        float64 `yaml:"threshold"`
	PeriodsPerYear   int     `yaml:"periods_per_year"`
	Deviation        string  `yaml:"deviation"`
	StartingPosition string  `yaml:"starting_position"`
	PnLMode          string  `yaml:"pnl_mode"`

	Data     DataConfig `yaml:"data"`
	LogLevel string     `yaml:"log_level"`
}

type DataConfig struct {
	Source   string      `yaml:"source"` // yahoo|file
	Path     string      `yaml:"path"`   // file or directory for source=file
	Adjusted bool        `yaml:"adjusted"`
	Cache    CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend"` // none|memory|redis
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	p := model.DefaultParams()
	return &Config{
		Ticker:           "AAPL",
		StartDate:        "2023-01-03",
		EndDate:          "2024-01-03",
		Window:           p.Window,
		Threshold:        p.Threshold,
		PeriodsPerYear:   p.PeriodsPerYear,
		Deviation:        string(p.Deviation),
		StartingPosition: "flat",
		PnLMode:          string(p.PnLMode),
		Data: DataConfig{
			Source: "yahoo",
			Cache: CacheConfig{
				Backend:   "none",
				TTL:       time.Hour,
				RedisAddr: "localhost:6379",
			},
		},
		LogLevel: "info",
	}
}

// Load reads the file over the defaults, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv loads the file named by CONFIG_PATH, or the defaults with
// environment overrides when it is unset. The result is never nil: on error
// it is Default() so callers can still build a logger from it.
func FromEnv() (*Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		c, err := Load(path)
		if err != nil {
			return Default(), err
		}
		return c, nil
	}
	c := Default()
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// LoadUnchecked decodes the file over Default() without env overrides or validation.
// Keys absent from the file keep their default; keys present, even as zero, win.
func LoadUnchecked(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	c := Default()
	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	// Relative data paths are resolved against the config file directory when that exists.
	if c.Data.Path != "" && !filepath.IsAbs(c.Data.Path) {
		cand := filepath.Join(filepath.Dir(path), c.Data.Path)
		if _, err := os.Stat(cand); err == nil {
			c.Data.Path = cand
		}
	}
	return c, nil
}

// Save persists a Config to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads .env style files into the process environment.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from ZSCORE_* variables and REDIS_ADDR.
// Unparseable numbers are kept as NaN/-1 so Validate rejects them instead of
// silently keeping the file value.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ZSCORE_TICKER"); v != "" {
		c.Ticker = v
	}
	if v := os.Getenv("ZSCORE_START_DATE"); v != "" {
		c.StartDate = v
	}
	if v := os.Getenv("ZSCORE_END_DATE"); v != "" {
		c.EndDate = v
	}
	if v := os.Getenv("ZSCORE_WINDOW"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			n = -1
		}
		c.Window = n
	}
	if v := os.Getenv("ZSCORE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			f = math.NaN()
		}
		c.Threshold = f
	}
	if v := os.Getenv("ZSCORE_DATA_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("ZSCORE_DATA_PATH"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("ZSCORE_CACHE"); v != "" {
		c.Data.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Data.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Data.Cache.RedisPassword = v
	}
	if v := os.Getenv("ZSCORE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, _, err := c.Dates(); err != nil {
		return err
	}
	switch c.Data.Source {
	case "yahoo":
		if data.NormalizeTicker(c.Ticker) == "" {
			return errors.New("ticker is required")
		}
	case "file":
		if c.Data.Path == "" {
			return errors.New("data.path is required for data.source=file")
		}
	default:
		return fmt.Errorf("unsupported data.source %q (want yahoo or file)", c.Data.Source)
	}
	switch c.Data.Cache.Backend {
	case "", "none", "memory":
	case "redis":
		if c.Data.Cache.RedisAddr == "" {
			return errors.New("data.cache.redis_addr is required for the redis cache")
		}
	default:
		return fmt.Errorf("unsupported data.cache.backend %q", c.Data.Cache.Backend)
	}
	return nil
}

// Params converts and validates the engine parameters.
func (c *Config) Params() (model.BacktestParams, error) {
	if c.Window <= 0 {
		return model.BacktestParams{}, fmt.Errorf("window %d: %w", c.Window, model.ErrInvalidWindow)
	}
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 {
		return model.BacktestParams{}, fmt.Errorf("threshold %v: %w", c.Threshold, model.ErrInvalidThreshold)
	}
	pos, err := model.ParsePosition(c.StartingPosition)
	if err != nil {
		return model.BacktestParams{}, err
	}
	p := model.BacktestParams{
		Window:           c.Window,
		Threshold:        c.Threshold,
		PeriodsPerYear:   c.PeriodsPerYear,
		Deviation:        model.Deviation(strings.ToLower(c.Deviation)),
		StartingPosition: pos,
		PnLMode:          model.PnLMode(strings.ToLower(c.PnLMode)),
	}
	if err := p.Validate(); err != nil {
		return model.BacktestParams{}, err
	}
	return p, nil
}

// Dates parses the analysis range. Empty bounds are returned as zero times.
func (c *Config) Dates() (start, end time.Time, err error) {
	if c.StartDate != "" {
		if start, err = time.Parse(time.DateOnly, c.StartDate); err != nil {
			return start, end, fmt.Errorf("invalid start_date (expected YYYY-MM-DD): %w", err)
		}
	}
	if c.EndDate != "" {
		if end, err = time.Parse(time.DateOnly, c.EndDate); err != nil {
			return start, end, fmt.Errorf("invalid end_date (expected YYYY-MM-DD): %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, fmt.Errorf("start_date %s is after end_date %s", c.StartDate, c.EndDate)
	}
	return start, end, nil
}

// Overrides carries optional per-request parameter changes.
type Overrides struct {
	Window           *int
	Threshold        *float64
	PeriodsPerYear   *int
	Deviation        string
	StartingPosition string
	PnLMode          string
}

// Merge overlays the set fields of o onto a copy of c.
func (c Config) Merge(o Overrides) *Config {
	out := c
	if o.Window != nil {
		out.Window = *o.Window
	}
	if o.Threshold != nil {
		out.Threshold = *o.Threshold
	}
	if o.PeriodsPerYear != nil {
		out.PeriodsPerYear = *o.PeriodsPerYear
	}
	if o.Deviation != "" {
		out.Deviation = o.Deviation
	}
	if o.StartingPosition != "" {
		out.StartingPosition = o.StartingPosition
	}
	if o.PnLMode != "" {
		out.PnLMode = o.PnLMode
	}
	return &out
}
