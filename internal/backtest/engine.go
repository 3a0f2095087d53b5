package backtest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/metrics"
	"zscore-backtest/internal/model"
	"zscore-backtest/internal/stats"
	"zscore-backtest/internal/strategy"
)

type Engine struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "engine").Logger()}
}

// Run executes the full pipeline over a single ticker's series:
// rolling stats, signals, PnL simulation and the performance summary.
func (e *Engine) Run(ticker string, prices model.PriceSeries, params model.BacktestParams) (*Result, error) {
	started := time.Now()
	res, err := e.run(ticker, prices, params)
	metrics.ObserveRun(time.Since(started), err)
	if err != nil {
		e.log.Debug().Err(err).Str("ticker", ticker).Msg("backtest failed")
		return nil, err
	}
	metrics.ObserveSignals(res.Summary.BuyCount, res.Summary.SellCount)
	e.log.Debug().
		Str("ticker", ticker).
		Int("rows", len(res.Ledger)).
		Int("window", params.Window).
		Float64("threshold", params.Threshold).
		Float64("sharpe", res.Summary.SharpeRatio).
		Dur("took", time.Since(started)).
		Msg("backtest completed")
	return res, nil
}

func (e *Engine) run(ticker string, prices model.PriceSeries, params model.BacktestParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, model.ErrEmptySeries
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	recs, err := stats.Compute(prices, params.Window, params.Deviation)
	if err != nil {
		return nil, fmt.Errorf("rolling stats: %w", err)
	}
	signals, err := strategy.Generate(recs, params.Threshold)
	if err != nil {
		return nil, fmt.Errorf("signals: %w", err)
	}
	pnl, err := Simulate(prices, signals, SimulateOptions{
		StartingPosition: params.StartingPosition,
		Mode:             params.PnLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	summary, err := analysis.Summarize(pnl, signals, analysis.Options{
		PeriodsPerYear: params.PeriodsPerYear,
		Deviation:      params.Deviation,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	ledger := make([]LedgerRow, len(prices))
	for i, p := range prices {
		ledger[i] = LedgerRow{
			Index: i,
			Time:  p.Time,
			Close: p.Close,

			Mean:   recs[i].Mean,
			Std:    recs[i].Std,
			ZScore: recs[i].ZScore,

			Signal:   signals[i],
			Position: pnl[i].Position,

			DailyPnL: pnl[i].DailyPnL,
			CumPnL:   pnl[i].CumPnL,
		}
	}

	return &Result{
		Ticker:  ticker,
		Params:  params,
		Ledger:  ledger,
		Summary: summary,
	}, nil
}
