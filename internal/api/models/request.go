package models

// BacktestRequest represents the request body for running a backtest
type BacktestRequest struct {
	Ticker    string          `json:"ticker" binding:"required"`
	StartDate string          `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string          `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Params    ParamsConfig    `json:"params,omitempty"`
	Options   BacktestOptions `json:"options,omitempty"`
}

// ParamsConfig overrides the default strategy parameters. Unset fields keep
// their defaults.
type ParamsConfig struct {
	Window           *int     `json:"window,omitempty"`
	Threshold        *float64 `json:"threshold,omitempty"`
	PeriodsPerYear   *int     `json:"periods_per_year,omitempty"`
	Deviation        string   `json:"deviation,omitempty"`         // population|sample
	StartingPosition string   `json:"starting_position,omitempty"` // flat|long|short
	PnLMode          string   `json:"pnl_mode,omitempty"`          // price|return
}

// BacktestOptions contains optional backtest parameters
type BacktestOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareBacktestRequest runs several parameter variations over one ticker
type CompareBacktestRequest struct {
	Ticker     string              `json:"ticker" binding:"required"`
	StartDate  string              `json:"start_date" binding:"required"`
	EndDate    string              `json:"end_date" binding:"required"`
	BaseParams ParamsConfig        `json:"base_params,omitempty"`
	Variations []BacktestVariation `json:"variations" binding:"required,min=1,dive"`
}

// BacktestVariation defines a variation to test
type BacktestVariation struct {
	Name   string       `json:"name" binding:"required"`
	Params ParamsConfig `json:"params"`
}

// RankRequest represents a request to rank tickers
type RankRequest struct {
	Tickers   string   `form:"tickers" binding:"required"` // comma-separated
	StartDate string   `form:"start_date" binding:"required"`
	EndDate   string   `form:"end_date" binding:"required"`
	Window    *int     `form:"window"`
	Threshold *float64 `form:"threshold"`
	Limit     int      `form:"limit"` // default: 10
}
