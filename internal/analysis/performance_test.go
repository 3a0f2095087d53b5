package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"zscore-backtest/internal/model"
)

var day0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func pnlFrom(daily ...float64) []model.PnLRecord {
	out := make([]model.PnLRecord, len(daily))
	cum := 0.0
	for i, d := range daily {
		if i > 0 {
			cum += d
		} else {
			d = 0
		}
		out[i] = model.PnLRecord{Time: day0.AddDate(0, 0, i), DailyPnL: d, CumPnL: cum}
	}
	return out
}

func holds(n int) []model.Signal {
	out := make([]model.Signal, n)
	for i := range out {
		out[i] = model.SignalHold
	}
	return out
}

func TestSummarizeYieldAndSharpe(t *testing.T) {
	pnl := pnlFrom(0, 1, -1, 2, 2)
	sigs := holds(5)
	sigs[1] = model.SignalBuy
	sigs[3] = model.SignalSell
	sigs[4] = model.SignalBuy

	s, err := Summarize(pnl, sigs, Options{PeriodsPerYear: 252})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if s.BuyCount != 2 || s.SellCount != 1 {
		t.Fatalf("unexpected counts: buy=%d sell=%d", s.BuyCount, s.SellCount)
	}
	// returns 1,-1,2,2 -> mean 1, population std sqrt(1.5)
	if math.Abs(s.YearlyYield-252) > 1e-9 {
		t.Fatalf("unexpected yearly yield: %v", s.YearlyYield)
	}
	want := 1 / math.Sqrt(1.5) * math.Sqrt(252)
	if math.Abs(s.SharpeRatio-want) > 1e-9 {
		t.Fatalf("expected sharpe %.6f, got %.6f", want, s.SharpeRatio)
	}
	if s.TotalPnL != 4 || s.TradingDays != 4 {
		t.Fatalf("unexpected totals: pnl=%v days=%d", s.TotalPnL, s.TradingDays)
	}
	if s.MaxDrawdown != 1 {
		t.Fatalf("expected max drawdown 1, got %v", s.MaxDrawdown)
	}
	if len(s.HoldingPeriods) != 2 || s.HoldingPeriods[0] != 48*time.Hour || s.HoldingPeriods[1] != 24*time.Hour {
		t.Fatalf("unexpected holding periods: %v", s.HoldingPeriods)
	}
}

func TestSummarizeDegenerateSharpe(t *testing.T) {
	for _, v := range []float64{0, 0.1, -3} {
		s, err := Summarize(pnlFrom(0, v, v, v, v), holds(5), Options{PeriodsPerYear: 252})
		if err != nil {
			t.Fatalf("Summarize returned error: %v", err)
		}
		if s.SharpeRatio != 0 {
			t.Fatalf("constant returns %v: expected sharpe exactly 0, got %v", v, s.SharpeRatio)
		}
	}
}

func TestSummarizeEmptyReturns(t *testing.T) {
	for _, n := range []int{0, 1} {
		s, err := Summarize(pnlFrom(make([]float64, n)...), holds(n), Options{PeriodsPerYear: 252})
		if err != nil {
			t.Fatalf("Summarize returned error: %v", err)
		}
		if s.YearlyYield != 0 || s.SharpeRatio != 0 || math.IsNaN(s.SharpeRatio) {
			t.Fatalf("expected zero yield and sharpe, got %+v", s)
		}
	}
}

func TestSummarizeSampleDeviation(t *testing.T) {
	s, err := Summarize(pnlFrom(0, 1, -1, 2, 2), holds(5), Options{PeriodsPerYear: 1, Deviation: model.DeviationSample})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if want := 1 / math.Sqrt(2); math.Abs(s.SharpeRatio-want) > 1e-9 {
		t.Fatalf("expected sharpe %.6f, got %.6f", want, s.SharpeRatio)
	}
}

func TestSummarizeErrors(t *testing.T) {
	if _, err := Summarize(pnlFrom(0, 1), holds(3), Options{PeriodsPerYear: 252}); !errors.Is(err, model.ErrMisalignedInput) {
		t.Fatalf("expected ErrMisalignedInput, got %v", err)
	}
	if _, err := Summarize(pnlFrom(0, 1), holds(2), Options{}); !errors.Is(err, model.ErrInvalidPeriods) {
		t.Fatalf("expected ErrInvalidPeriods, got %v", err)
	}
}

func TestRankBySharpe(t *testing.T) {
	in := []Ranked{
		{Name: "b", Summary: Summary{SharpeRatio: 1, YearlyYield: 5}},
		{Name: "a", Summary: Summary{SharpeRatio: 2}},
		{Name: "c", Summary: Summary{SharpeRatio: 1, YearlyYield: 9}},
		{Name: "d", Summary: Summary{SharpeRatio: -1}},
	}
	got := RankBySharpe(in)
	order := []string{"a", "c", "b", "d"}
	for i, name := range order {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
	if in[0].Name != "b" {
		t.Fatalf("RankBySharpe must not reorder its input")
	}
}
