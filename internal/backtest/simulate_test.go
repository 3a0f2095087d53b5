package backtest

import (
	"errors"
	"math"
	"testing"

	"zscore-backtest/internal/model"
)

const (
	B = model.SignalBuy
	S = model.SignalSell
	H = model.SignalHold
)

func TestSimulateFlatStart(t *testing.T) {
	prices := golden()
	sigs := []model.Signal{H, H, B, H, H, S, H}
	pnl, err := Simulate(prices, sigs, SimulateOptions{})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	// long from close[2]=99 through close[5]=103, then short into 97
	want := []float64{0, 0, 0, 2, -1, 3, 6}
	for i, w := range want {
		if pnl[i].DailyPnL != w {
			t.Fatalf("day %d: expected %v, got %v", i, w, pnl[i].DailyPnL)
		}
	}
	if pnl[6].CumPnL != 10 {
		t.Fatalf("expected cumulative 10, got %v", pnl[6].CumPnL)
	}
	wantPos := []model.Position{
		model.PositionFlat, model.PositionFlat, model.PositionLong, model.PositionLong,
		model.PositionLong, model.PositionShort, model.PositionShort,
	}
	for i, p := range wantPos {
		if pnl[i].Position != p {
			t.Fatalf("day %d: expected %s, got %s", i, p, pnl[i].Position)
		}
	}
	if pnl[0].DailyPnL != 0 || pnl[0].CumPnL != 0 {
		t.Fatalf("index 0 must be zero: %+v", pnl[0])
	}
}

func TestSimulateStartingPosition(t *testing.T) {
	prices := series(10, 12, 11)
	pnl, err := Simulate(prices, []model.Signal{H, H, H}, SimulateOptions{StartingPosition: model.PositionShort})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if pnl[1].DailyPnL != -2 || pnl[2].DailyPnL != 1 {
		t.Fatalf("short start: unexpected pnl %+v", pnl)
	}
}

func TestSimulateRepeatedSignalsAreNoOps(t *testing.T) {
	prices := series(10, 11, 12, 13)
	a, _ := Simulate(prices, []model.Signal{B, H, H, H}, SimulateOptions{})
	b, _ := Simulate(prices, []model.Signal{B, B, B, B}, SimulateOptions{})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSimulateNoLookAhead(t *testing.T) {
	prices := golden()
	base := []model.Signal{H, B, H, S, H, B, H}
	ref, err := Simulate(prices, base, SimulateOptions{})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	for i := range base {
		for _, alt := range []model.Signal{B, S, H} {
			mod := append([]model.Signal(nil), base...)
			mod[i] = alt
			got, _ := Simulate(prices, mod, SimulateOptions{})
			if got[i].DailyPnL != ref[i].DailyPnL {
				t.Fatalf("changing signal %d altered dailyPnL[%d]", i, i)
			}
			for j := 0; j < i; j++ {
				if got[j].DailyPnL != ref[j].DailyPnL {
					t.Fatalf("changing signal %d altered earlier dailyPnL[%d]", i, j)
				}
			}
		}
	}
}

func TestSimulateReturnMode(t *testing.T) {
	pnl, err := Simulate(series(100, 110, 99), []model.Signal{B, H, H}, SimulateOptions{Mode: model.PnLModeReturn})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if math.Abs(pnl[1].DailyPnL-0.1) > 1e-12 || math.Abs(pnl[2].DailyPnL+0.1) > 1e-12 {
		t.Fatalf("unexpected percentage pnl: %+v", pnl)
	}
}

func TestSimulateMisaligned(t *testing.T) {
	if _, err := Simulate(golden(), []model.Signal{H}, SimulateOptions{}); !errors.Is(err, model.ErrMisalignedInput) {
		t.Fatalf("expected ErrMisalignedInput, got %v", err)
	}
	if _, err := Simulate(nil, nil, SimulateOptions{}); !errors.Is(err, model.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}
