package data

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"zscore-backtest/internal/model"
)

// FileSource serves price histories from local files. Path is either a single
// .json/.csv file or a directory holding one <TICKER>.csv or <TICKER>.json per ticker.
type FileSource struct {
	Path string
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) History(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.resolve(ticker)
	if err != nil {
		return nil, err
	}
	all, err := LoadPrices(path)
	if err != nil {
		return nil, err
	}
	series := all.Between(start, end)
	if len(series) == 0 {
		return nil, fmt.Errorf("%s has no prices between %s and %s: %w",
			path, start.Format(time.DateOnly), end.Format(time.DateOnly), model.ErrEmptySeries)
	}
	return series, nil
}

func (f *FileSource) resolve(ticker string) (string, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return f.Path, nil
	}
	t := NormalizeTicker(ticker)
	for _, ext := range []string{".csv", ".json"} {
		cand := filepath.Join(f.Path, t+ext)
		if _, err := os.Stat(cand); err == nil {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no price file for %s in %s", t, f.Path)
}

// LoadPrices reads a JSON or CSV price file, chosen by extension, and
// validates the result.
func LoadPrices(path string) (model.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer file.Close()

	var series model.PriceSeries
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		series, err = DecodePricesJSON(file)
	case ".csv":
		series, err = DecodePricesCSV(file)
	default:
		return nil, fmt.Errorf("unsupported price file %q (want .json or .csv)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// DecodePricesJSON reads [{"time": "...", "close": ...}, ...].
func DecodePricesJSON(r io.Reader) (model.PriceSeries, error) {
	var series model.PriceSeries
	if err := json.NewDecoder(r).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return series, nil
}

// DecodePricesCSV reads a CSV with a header row. The date column is named
// date or time; the price column is close (or "adj close" when no close
// column exists). Other columns, as in a Yahoo export, are ignored.
func DecodePricesCSV(r io.Reader) (model.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, closeCol := -1, -1
	adjCol := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "time", "timestamp":
			dateCol = i
		case "close":
			closeCol = i
		case "adj close", "adj_close", "adjclose":
			adjCol = i
		}
	}
	if closeCol < 0 {
		closeCol = adjCol
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("header %v needs date and close columns", header)
	}

	var series model.PriceSeries
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= dateCol || len(rec) <= closeCol {
			return nil, fmt.Errorf("line %d: short record", line)
		}
		ts, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		px, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: close %q: %w", line, rec[closeCol], err)
		}
		series = append(series, model.PricePoint{Time: ts, Close: px})
	}
	return series, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
}
