package strategy

import "zscore-backtest/internal/model"

type Context struct {
	Index  int
	Record model.StatRecord
}

type Strategy interface {
	Name() string
	Decide(ctx Context) model.Signal
}
