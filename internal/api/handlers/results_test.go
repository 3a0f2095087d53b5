package handlers

import (
	"fmt"
	"testing"

	"zscore-backtest/internal/backtest"
)

func TestResultStoreEvictsOldest(t *testing.T) {
	s := newResultStore(2)
	for i := 0; i < 3; i++ {
		s.put(fmt.Sprint(i), &backtest.Result{Ticker: fmt.Sprint(i)})
	}
	if _, ok := s.get("0"); ok {
		t.Fatalf("oldest entry should be evicted")
	}
	for _, id := range []string{"1", "2"} {
		if res, ok := s.get(id); !ok || res.Ticker != id {
			t.Fatalf("expected entry %s", id)
		}
	}
}

func TestSplitTickers(t *testing.T) {
	got := splitTickers(" aapl, MSFT,,aapl ,nvda")
	want := []string{"AAPL", "MSFT", "NVDA"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tickers %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
