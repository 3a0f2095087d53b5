package models

import (
	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/model"
)

// BacktestResponse represents the response from a backtest run
type BacktestResponse struct {
	ID      string               `json:"id"`
	Status  string               `json:"status"`
	Ticker  string               `json:"ticker"`
	Params  model.BacktestParams `json:"params"`
	Window  TimeWindow           `json:"backtest_window"`
	Summary analysis.Summary     `json:"summary"`
	Ledger  []backtest.LedgerRow `json:"ledger,omitempty"`
}

// TimeWindow is the date range actually covered by the price series
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CompareBacktestResponse represents the response from a comparison
type CompareBacktestResponse struct {
	Ticker     string             `json:"ticker"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation. Failed variations
// carry an error instead of a summary.
type ComparisonResult struct {
	Rank    int                  `json:"rank,omitempty"`
	Name    string               `json:"name"`
	Params  model.BacktestParams `json:"params"`
	Summary *analysis.Summary    `json:"summary,omitempty"`
	Error   *ErrorDetail         `json:"error,omitempty"`
}

// RankResponse represents the response from ranking tickers
type RankResponse struct {
	Rankings []Ranking    `json:"rankings"`
	Failed   []RankFailed `json:"failed,omitempty"`
}

// Ranking represents one ranked ticker
type Ranking struct {
	Rank        int     `json:"rank"`
	Ticker      string  `json:"ticker"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	YearlyYield float64 `json:"yearly_yield"`
	TotalPnL    float64 `json:"total_pnl"`
	MaxDrawdown float64 `json:"max_drawdown"`
	BuyCount    int     `json:"buy_count"`
	SellCount   int     `json:"sell_count"`
}

// RankFailed reports a ticker that could not be backtested
type RankFailed struct {
	Ticker string      `json:"ticker"`
	Error  ErrorDetail `json:"error"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
	Options     []string    `json:"options,omitempty"`
}

// TickerInfo represents one watchlist entry
type TickerInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
