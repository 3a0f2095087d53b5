package data

import (
	"context"
	"strings"
	"time"

	"zscore-backtest/internal/model"
)

// PriceSource retrieves a daily close history for one ticker, inclusive of
// both bounds. Implementations return a validated, chronologically ordered series.
type PriceSource interface {
	Name() string
	History(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
}

// WarmupStart moves the retrieval start back by window calendar days so the
// first analysis day already has a rolling window behind it.
func WarmupStart(start time.Time, window int) time.Time {
	if window <= 0 || start.IsZero() {
		return start
	}
	return start.AddDate(0, 0, -window)
}

// FetchWithWarmup retrieves [start, end] for ticker, starting window
// calendar days early.
func FetchWithWarmup(ctx context.Context, src PriceSource, ticker string, start, end time.Time, window int) (model.PriceSeries, error) {
	return src.History(ctx, NormalizeTicker(ticker), WarmupStart(start, window), end)
}

func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
