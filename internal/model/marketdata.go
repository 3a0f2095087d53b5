package model

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is one daily close.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered close-price history for a single ticker.
// Timestamps are strictly increasing. Treat a series as immutable once it
// has been retrieved; stages never write into it.
type PriceSeries []PricePoint

// Validate checks ordering and that every close is a finite, positive number.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	for i, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return fmt.Errorf("index %d close %v: %w", i, p.Close, ErrInvalidPrice)
		}
		if i > 0 && !p.Time.After(s[i-1].Time) {
			return fmt.Errorf("index %d at %s not after %s: %w",
				i, p.Time.Format(time.DateOnly), s[i-1].Time.Format(time.DateOnly), ErrUnsortedSeries)
		}
	}
	return nil
}

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Between returns the points with start <= Time <= end. A zero bound is open.
func (s PriceSeries) Between(start, end time.Time) PriceSeries {
	out := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if !start.IsZero() && p.Time.Before(start) {
			continue
		}
		if !end.IsZero() && p.Time.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Clone returns an independent copy, for handing a series to a concurrent run.
func (s PriceSeries) Clone() PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	return out
}
