package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zscore-backtest/internal/model"
)

func TestObserveRunRegistersMetrics(t *testing.T) {
	ObserveRun(time.Millisecond, nil)
	ObserveRun(time.Millisecond, fmt.Errorf("wrapped: %w", model.ErrInvalidWindow))
	ObserveSignals(2, 1)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	want := map[string]bool{
		"zscore_backtests_total":           false,
		"zscore_signals_total":             false,
		"zscore_backtest_duration_seconds": false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("%s metric not found", name)
		}
	}
}

func TestStatusLabels(t *testing.T) {
	cases := map[string]error{
		"ok":                nil,
		"invalid_window":    fmt.Errorf("x: %w", model.ErrInvalidWindow),
		"invalid_threshold": model.ErrInvalidThreshold,
		"empty_series":      model.ErrEmptySeries,
		"misaligned_input":  model.ErrMisalignedInput,
		"error":             fmt.Errorf("boom"),
	}
	for want, err := range cases {
		if got := status(err); got != want {
			t.Fatalf("status(%v) = %s, want %s", err, got, want)
		}
	}
}
