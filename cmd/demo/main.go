package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/cli"
	"zscore-backtest/internal/config"
	"zscore-backtest/internal/model"
	"zscore-backtest/internal/util"
)

// Demo:
// - Generate a mean reverting price path (Ornstein-Uhlenbeck around a level)
// - Run the Z-score strategy on it, offline
// - Print the summary and optionally write the ledger CSV
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional, strategy params only)")
	n := flag.Int("n", 252, "Number of trading days to generate")
	seed := flag.Int64("seed", 7, "Random seed")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/demo.csv)")
	flag.Parse()

	log := util.NewLoggerTo(os.Stderr, "info")

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}
	params, err := cfg.Params()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid parameters")
	}

	prices := meanReverting(*n, 100, 0.15, 1.5, rand.New(rand.NewSource(*seed)))
	res, err := backtest.New(log).Run("DEMO", prices, params)
	if err != nil {
		log.Fatal().Err(err).Msg("backtest")
	}

	fmt.Println(cli.RenderResult(res))

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			log.Fatal().Err(err).Msg("create output dir")
		}
		if err := backtest.WriteLedgerCSV(*outCSV, res.Ledger); err != nil {
			log.Fatal().Err(err).Msg("write ledger")
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), *outCSV)
	}
}

// meanReverting returns n business-day closes pulled toward level with
// strength theta and daily noise sigma.
func meanReverting(n int, level, theta, sigma float64, rng *rand.Rand) model.PriceSeries {
	out := make(model.PriceSeries, 0, n)
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	px := level
	for len(out) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, model.PricePoint{Time: day, Close: math.Round(px*100) / 100})
			px += theta*(level-px) + sigma*rng.NormFloat64()
			px = math.Max(px, 1)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}
