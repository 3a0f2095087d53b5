package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"zscore-backtest/internal/model"
)

// Variation is a named parameter set applied to one series.
type Variation struct {
	Name   string
	Params model.BacktestParams
}

// Grid builds the window x threshold cross product on top of base.
func Grid(base model.BacktestParams, windows []int, thresholds []float64) []Variation {
	out := make([]Variation, 0, len(windows)*len(thresholds))
	for _, w := range windows {
		for _, th := range thresholds {
			p := base
			p.Window = w
			p.Threshold = th
			out = append(out, Variation{Name: fmt.Sprintf("w=%d,z=%g", w, th), Params: p})
		}
	}
	return out
}

// Outcome is the result of one variation. Err is set when that variation
// failed; the other variations still run.
type Outcome struct {
	Variation Variation
	Result    *Result
	Err       error
}

// Sweep runs every variation concurrently, at most limit at a time. Each run
// gets its own copy of the series. Outcomes keep the order of variations.
func (e *Engine) Sweep(ctx context.Context, ticker string, prices model.PriceSeries, variations []Variation, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = 4
	}
	out := make([]Outcome, len(variations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, v := range variations {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Run(ticker, prices.Clone(), v.Params)
			out[i] = Outcome{Variation: v, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
