package strategy

import (
	"fmt"
	"math"

	"zscore-backtest/internal/model"
)

// ZScoreStrategy is a mean-reversion rule on the rolling Z-score:
// - z >= +Threshold: SELL (price stretched above its mean)
// - z <= -Threshold: BUY
// - otherwise, or when z is undefined: HOLD
type ZScoreStrategy struct {
	Threshold float64
}

func NewZScoreStrategy(threshold float64) (*ZScoreStrategy, error) {
	if math.IsNaN(threshold) || threshold <= 0 {
		return nil, fmt.Errorf("threshold %v: %w", threshold, model.ErrInvalidThreshold)
	}
	return &ZScoreStrategy{Threshold: threshold}, nil
}

func (s *ZScoreStrategy) Name() string { return "zscore" }

func (s *ZScoreStrategy) Decide(ctx Context) model.Signal {
	z, ok := ctx.Record.ZScore.Get()
	if !ok {
		return model.SignalHold
	}
	switch {
	case z >= s.Threshold:
		return model.SignalSell
	case z <= -s.Threshold:
		return model.SignalBuy
	default:
		return model.SignalHold
	}
}

// Generate maps every stat record to a signal. Each index is decided from its
// own Z-score only.
func Generate(stats []model.StatRecord, threshold float64) ([]model.Signal, error) {
	strat, err := NewZScoreStrategy(threshold)
	if err != nil {
		return nil, err
	}
	return Apply(strat, stats), nil
}

// Apply runs any Strategy over the records.
func Apply(strat Strategy, stats []model.StatRecord) []model.Signal {
	out := make([]model.Signal, len(stats))
	for i, rec := range stats {
		out[i] = strat.Decide(Context{Index: i, Record: rec})
	}
	return out
}
