package analysis

import (
	"fmt"
	"math"
	"time"

	"zscore-backtest/internal/model"
	"zscore-backtest/internal/stats"
)

// Summary is the aggregate performance of one backtest.
type Summary struct {
	YearlyYield float64 `json:"yearly_yield"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	BuyCount    int     `json:"buy_count"`
	SellCount   int     `json:"sell_count"`

	TotalPnL    float64 `json:"total_pnl"`
	MaxDrawdown float64 `json:"max_drawdown"`
	TradingDays int     `json:"trading_days"`

	// HoldingPeriods are the gaps between consecutive non-HOLD signals.
	HoldingPeriods []time.Duration `json:"holding_periods,omitempty"`
}

type Options struct {
	PeriodsPerYear int
	Deviation      model.Deviation
}

// Summarize aggregates a simulated PnL sequence and its signals.
//
// Daily returns are the DailyPnL values after index 0. With no returns, or
// with a zero return deviation, the affected ratios are reported as 0.
func Summarize(pnl []model.PnLRecord, signals []model.Signal, opts Options) (Summary, error) {
	if len(pnl) != len(signals) {
		return Summary{}, fmt.Errorf("%d pnl records for %d signals: %w", len(pnl), len(signals), model.ErrMisalignedInput)
	}
	if opts.PeriodsPerYear <= 0 {
		return Summary{}, fmt.Errorf("periods per year %d: %w", opts.PeriodsPerYear, model.ErrInvalidPeriods)
	}

	s := Summary{}
	var last time.Time
	seen := false
	for i, sig := range signals {
		switch sig {
		case model.SignalBuy:
			s.BuyCount++
		case model.SignalSell:
			s.SellCount++
		default:
			continue
		}
		if seen {
			s.HoldingPeriods = append(s.HoldingPeriods, pnl[i].Time.Sub(last))
		}
		last = pnl[i].Time
		seen = true
	}

	if len(pnl) == 0 {
		return s, nil
	}
	s.TotalPnL = pnl[len(pnl)-1].CumPnL
	s.MaxDrawdown = maxDrawdown(pnl)

	returns := make([]float64, 0, len(pnl)-1)
	for _, r := range pnl[1:] {
		returns = append(returns, r.DailyPnL)
	}
	s.TradingDays = len(returns)
	if len(returns) == 0 {
		return s, nil
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	periods := float64(opts.PeriodsPerYear)
	s.YearlyYield = mean * periods

	std, ok := stats.StdDev(returns, opts.Deviation.DDOF())
	if ok && std > 0 {
		s.SharpeRatio = mean / std * math.Sqrt(periods)
	}
	return s, nil
}

// maxDrawdown is the largest fall of cumulative PnL from a running peak.
// The peak starts at 0, the cumulative PnL before any trade.
func maxDrawdown(pnl []model.PnLRecord) float64 {
	peak, dd := 0.0, 0.0
	for _, r := range pnl {
		if r.CumPnL > peak {
			peak = r.CumPnL
		}
		if d := peak - r.CumPnL; d > dd {
			dd = d
		}
	}
	return dd
}
