package backtest

import (
	"fmt"

	"zscore-backtest/internal/model"
)

// SimulateOptions configures the position-following simulation.
type SimulateOptions struct {
	StartingPosition model.Position
	Mode             model.PnLMode
}

// Simulate follows the signals with a single unit position and accrues PnL.
//
// The position after signal[i-1] is the one held over the move from close[i-1]
// to close[i], so signal[i] never earns on its own day. Index 0 has no prior
// close and is reported as zero.
func Simulate(prices model.PriceSeries, signals []model.Signal, opts SimulateOptions) ([]model.PnLRecord, error) {
	if len(prices) == 0 {
		return nil, model.ErrEmptySeries
	}
	if len(signals) != len(prices) {
		return nil, fmt.Errorf("%d signals for %d prices: %w", len(signals), len(prices), model.ErrMisalignedInput)
	}
	pos := opts.StartingPosition
	if pos == "" {
		pos = model.PositionFlat
	}
	mode := opts.Mode
	if mode == "" {
		mode = model.PnLModePrice
	}

	out := make([]model.PnLRecord, len(prices))
	cum := 0.0
	for i, p := range prices {
		if i > 0 {
			daily := pos.Units() * move(prices[i-1].Close, p.Close, mode)
			cum += daily
			out[i].DailyPnL = daily
		}
		pos = pos.Next(signals[i])

		out[i].Time = p.Time
		out[i].CumPnL = cum
		out[i].Position = pos
	}
	return out, nil
}

func move(prev, cur float64, mode model.PnLMode) float64 {
	if mode == model.PnLModeReturn {
		return cur/prev - 1
	}
	return cur - prev
}
