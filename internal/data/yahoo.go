package data

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"zscore-backtest/internal/metrics"
	"zscore-backtest/internal/model"
)

// YahooClient fetches daily bars from the Yahoo Finance chart endpoint.
type YahooClient struct {
	// Adjusted selects the split/dividend adjusted close instead of the raw close.
	Adjusted bool
	Retry    RetryConfig

	log zerolog.Logger
}

func NewYahooClient(log zerolog.Logger, adjusted bool) *YahooClient {
	return &YahooClient{
		Adjusted: adjusted,
		Retry:    DefaultRetryConfig(),
		log:      log.With().Str("component", "yahoo").Logger(),
	}
}

func (y *YahooClient) Name() string { return "yahoo" }

// History retrieves daily closes for [start, end].
func (y *YahooClient) History(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end dates are required")
	}
	if start.After(end) {
		return nil, fmt.Errorf("start %s is after end %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	// The chart endpoint treats end as exclusive.
	until := end.AddDate(0, 0, 1)
	began := time.Now()
	var series model.PriceSeries
	err := WithRetry(ctx, y.Retry, func() error {
		iter := chart.Get(&chart.Params{
			Symbol:   ticker,
			Start:    datetime.New(&start),
			End:      datetime.New(&until),
			Interval: datetime.OneDay,
		})

		series = series[:0]
		for iter.Next() {
			bar := iter.Bar()
			px := bar.Close
			if y.Adjusted {
				px = bar.AdjClose
			}
			series = append(series, model.PricePoint{
				Time:  dayOf(time.Unix(int64(bar.Timestamp), 0)),
				Close: toFloat(px),
			})
		}
		if err := iter.Err(); err != nil {
			y.log.Warn().Err(err).Str("ticker", ticker).Msg("chart request failed")
			return fmt.Errorf("history for %s: %w", ticker, err)
		}
		return nil
	})
	if err != nil {
		metrics.FetchTotal.WithLabelValues(y.Name(), "error").Inc()
		return nil, err
	}

	series = clean(series)
	y.log.Info().
		Str("ticker", ticker).
		Str("start", start.Format(time.DateOnly)).
		Str("end", end.Format(time.DateOnly)).
		Int("bars", len(series)).
		Dur("took", time.Since(began)).
		Msg("fetched price history")
	if len(series) == 0 {
		metrics.FetchTotal.WithLabelValues(y.Name(), "empty").Inc()
		return nil, fmt.Errorf("no data found for %s: %w", ticker, model.ErrEmptySeries)
	}
	metrics.FetchTotal.WithLabelValues(y.Name(), "ok").Inc()
	return series, nil
}

// Describe looks up the display name and exchange of a symbol.
func (y *YahooClient) Describe(ctx context.Context, ticker string) (Ticker, error) {
	ticker = NormalizeTicker(ticker)
	out := Ticker{Symbol: ticker}
	err := WithRetry(ctx, y.Retry, func() error {
		q, err := quote.Get(ticker)
		if err != nil {
			return fmt.Errorf("quote for %s: %w", ticker, err)
		}
		if q == nil {
			return fmt.Errorf("quote for %s: not found", ticker)
		}
		out.Name = q.ShortName
		out.Exchange = q.FullExchangeName
		return nil
	})
	return out, err
}

// toFloat converts a bar price. Chart prices carry at most a handful of
// decimals, so the float64 rounding is below anything the engine resolves.
func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// dayOf truncates a bar timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// clean sorts by time, keeps the last bar for a repeated day and drops
// non-positive closes (the chart API emits zero bars for halted sessions).
func clean(in model.PriceSeries) model.PriceSeries {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Time.Before(in[j].Time) })
	out := make(model.PriceSeries, 0, len(in))
	for _, p := range in {
		if p.Close <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
