package strategy

import (
	"errors"
	"math"
	"testing"

	"zscore-backtest/internal/model"
)

func records(zs ...float64) []model.StatRecord {
	out := make([]model.StatRecord, len(zs))
	for i, z := range zs {
		if math.IsNaN(z) {
			continue
		}
		out[i].ZScore = model.Defined(z)
	}
	return out
}

func TestGenerateThresholdRule(t *testing.T) {
	nan := math.NaN()
	sigs, err := Generate(records(nan, nan, -1.069, 1.0, -1.0, 0.99, -0.5, 2.5), 1.0)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	want := []model.Signal{
		model.SignalHold, model.SignalHold,
		model.SignalBuy, model.SignalSell, model.SignalBuy,
		model.SignalHold, model.SignalHold, model.SignalSell,
	}
	if len(sigs) != len(want) {
		t.Fatalf("expected %d signals, got %d", len(want), len(sigs))
	}
	for i := range want {
		if sigs[i] != want[i] {
			t.Fatalf("index %d: expected %s, got %s", i, want[i], sigs[i])
		}
	}
}

func TestGenerateInvalidThreshold(t *testing.T) {
	for _, th := range []float64{0, -1, math.NaN()} {
		if _, err := Generate(records(1), th); !errors.Is(err, model.ErrInvalidThreshold) {
			t.Fatalf("threshold %v: expected ErrInvalidThreshold, got %v", th, err)
		}
	}
}

func TestGenerateThresholdMonotonicity(t *testing.T) {
	recs := records(-3, -2.1, -1.5, -0.2, 0, 0.7, 1.2, 1.9, 2.0, 3.4, math.NaN())
	prev := len(recs) + 1
	for _, th := range []float64{0.1, 0.5, 1, 1.5, 2, 2.5, 3, 4} {
		sigs, err := Generate(recs, th)
		if err != nil {
			t.Fatalf("threshold %v: %v", th, err)
		}
		n := 0
		for _, s := range sigs {
			if s != model.SignalHold {
				n++
			}
		}
		if n > prev {
			t.Fatalf("threshold %v fired %d signals, more than %d at a lower threshold", th, n, prev)
		}
		prev = n
	}
}
