package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zscore-backtest/internal/model"
)

var (
	BacktestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "zscore_backtests_total", Help: "Backtest runs by outcome"},
		[]string{"status"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "zscore_signals_total", Help: "Non-hold signals emitted"},
		[]string{"signal"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zscore_backtest_duration_seconds",
			Help:    "Wall time of a single backtest pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "zscore_price_fetch_total", Help: "Price history retrievals by source and result"},
		[]string{"source", "result"},
	)
)

func init() {
	prometheus.MustRegister(BacktestsTotal, SignalsTotal, RunDuration, FetchTotal)
}

// ObserveRun records one pipeline run. Errors are labelled by kind.
func ObserveRun(took time.Duration, err error) {
	RunDuration.Observe(took.Seconds())
	BacktestsTotal.WithLabelValues(status(err)).Inc()
}

func ObserveSignals(buys, sells int) {
	SignalsTotal.WithLabelValues(string(model.SignalBuy)).Add(float64(buys))
	SignalsTotal.WithLabelValues(string(model.SignalSell)).Add(float64(sells))
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, model.ErrInvalidThreshold):
		return "invalid_threshold"
	case errors.Is(err, model.ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, model.ErrMisalignedInput):
		return "misaligned_input"
	default:
		return "error"
	}
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
