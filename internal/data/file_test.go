package data

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zscore-backtest/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLoadPricesCSV(t *testing.T) {
	series, err := LoadPrices(filepath.Join("testdata", "AAPL.csv"))
	if err != nil {
		t.Fatalf("LoadPrices returned error: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("expected 5 prices, got %d", len(series))
	}
	if series[0].Close != 125.07 || !series[0].Time.Equal(date("2023-01-03")) {
		t.Fatalf("unexpected first point: %+v", series[0])
	}
}

func TestLoadPricesJSON(t *testing.T) {
	series, err := LoadPrices(filepath.Join("testdata", "MSFT.json"))
	if err != nil {
		t.Fatalf("LoadPrices returned error: %v", err)
	}
	if len(series) != 3 || series[2].Close != 222.31 {
		t.Fatalf("unexpected series: %+v", series)
	}
}

func TestDecodePricesCSVAdjCloseFallback(t *testing.T) {
	in := "date,adj close\n2023-01-03,10.5\n2023-01-04,11\n"
	series, err := DecodePricesCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodePricesCSV returned error: %v", err)
	}
	if len(series) != 2 || series[1].Close != 11 {
		t.Fatalf("unexpected series: %+v", series)
	}
}

func TestDecodePricesCSVErrors(t *testing.T) {
	cases := map[string]string{
		"missing columns": "day,price\n2023-01-03,1\n",
		"bad date":        "date,close\n03/01/2023,1\n",
		"bad close":       "date,close\n2023-01-03,abc\n",
	}
	for name, in := range cases {
		if _, err := DecodePricesCSV(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadPricesRejectsUnsorted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "X.csv")
	writeFile(t, path, "date,close\n2023-01-04,1\n2023-01-03,2\n")
	if _, err := LoadPrices(path); !errors.Is(err, model.ErrUnsortedSeries) {
		t.Fatalf("expected ErrUnsortedSeries, got %v", err)
	}
}

func TestFileSourceDirectory(t *testing.T) {
	src := &FileSource{Path: "testdata"}
	series, err := src.History(context.Background(), "aapl", date("2023-01-04"), date("2023-01-06"))
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 prices in range, got %d", len(series))
	}

	if _, err := src.History(context.Background(), "MSFT", date("2024-01-01"), date("2024-02-01")); !errors.Is(err, model.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries for an empty range, got %v", err)
	}
	if _, err := src.History(context.Background(), "NOPE", date("2023-01-01"), date("2023-02-01")); err == nil {
		t.Fatalf("expected error for unknown ticker")
	}
}

func TestWarmupStart(t *testing.T) {
	got := WarmupStart(date("2023-01-13"), 10)
	if !got.Equal(date("2023-01-03")) {
		t.Fatalf("unexpected warm-up start %s", got)
	}
	if !WarmupStart(date("2023-01-13"), 0).Equal(date("2023-01-13")) {
		t.Fatalf("zero window should not move the start")
	}
	if !WarmupStart(time.Time{}, 10).IsZero() {
		t.Fatalf("an open start must stay open")
	}
}
