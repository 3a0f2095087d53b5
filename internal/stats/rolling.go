// Package stats computes trailing-window statistics over a price series.
package stats

import (
	"fmt"
	"math"

	"zscore-backtest/internal/model"
)

// Compute returns one StatRecord per point. The first window-1 records are
// undefined. A zero deviation leaves the Z-score undefined for that index.
func Compute(prices model.PriceSeries, window int, dev model.Deviation) ([]model.StatRecord, error) {
	if len(prices) == 0 {
		return nil, model.ErrEmptySeries
	}
	if window <= 0 || window > len(prices) {
		return nil, fmt.Errorf("window %d for %d prices: %w", window, len(prices), model.ErrInvalidWindow)
	}
	ddof := dev.DDOF()

	closes := prices.Closes()
	out := make([]model.StatRecord, len(prices))
	for i, p := range prices {
		out[i].Time = p.Time
		if i < window-1 {
			continue
		}
		w := closes[i-window+1 : i+1]
		mean := Mean(w)
		std, ok := StdDev(w, ddof)

		out[i].Mean = model.Defined(mean)
		if !ok {
			continue
		}
		out[i].Std = model.Defined(std)
		if std > 0 {
			out[i].ZScore = model.Defined((p.Close - mean) / std)
		}
	}
	return out, nil
}

// Mean is the arithmetic mean of xs. Empty input yields 0.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev is the standard deviation of xs around their mean with the given
// delta degrees of freedom. It reports false when n-ddof <= 0. Constant input
// yields exactly 0.
func StdDev(xs []float64, ddof int) (float64, bool) {
	n := len(xs)
	if n-ddof <= 0 {
		return 0, false
	}
	// the mean of equal floats can be off by an ulp
	constant := true
	for _, x := range xs[1:] {
		if x != xs[0] {
			constant = false
			break
		}
	}
	if constant {
		return 0, true
	}
	mean := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof)), true
}
