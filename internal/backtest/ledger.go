package backtest

import (
	"time"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/model"
)

// LedgerRow is one row of the aligned per-day output table.
// This is the primary artifact for "what happened" in a backtest.
type LedgerRow struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`

	Mean   model.Stat `json:"rolling_mean"`
	Std    model.Stat `json:"rolling_std"`
	ZScore model.Stat `json:"z_score"`

	Signal   model.Signal   `json:"signal"`
	Position model.Position `json:"position"`

	DailyPnL float64 `json:"daily_pnl"`
	CumPnL   float64 `json:"cum_pnl"`
}

type Result struct {
	Ticker  string
	Params  model.BacktestParams
	Ledger  []LedgerRow
	Summary analysis.Summary
}

// Signals extracts the signal column.
func (r *Result) Signals() []model.Signal {
	out := make([]model.Signal, len(r.Ledger))
	for i, row := range r.Ledger {
		out[i] = row.Signal
	}
	return out
}
