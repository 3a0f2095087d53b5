package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
	"zscore-backtest/internal/util"
)

// update-tickers refreshes the watchlist served by /api/v1/tickers and used
// by `zscore rank` when no tickers are given.
func main() {
	var (
		outputPath = flag.String("output", "", "Output file path (default: ./data/tickers.json)")
		seedFile   = flag.String("seed", "", "Existing watchlist to use as seed")
		symbols    = flag.String("symbols", "", "Comma-separated symbols to add")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	)
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	log := util.NewLogger(os.Getenv("ZSCORE_LOG_LEVEL"))

	if *outputPath == "" {
		*outputPath = data.DefaultWatchlistPath()
	}
	seedPath := *seedFile
	if seedPath == "" {
		seedPath = *outputPath
	}

	var seed []data.Ticker
	if list, err := data.LoadWatchlist(seedPath); err == nil {
		seed = list.Tickers
		log.Info().Int("count", len(seed)).Str("path", seedPath).Msg("loaded seed watchlist")
	}
	for _, s := range strings.Split(*symbols, ",") {
		if sym := data.NormalizeTicker(s); sym != "" {
			seed = append(seed, data.Ticker{Symbol: sym})
		}
	}
	if len(seed) == 0 {
		seed = []data.Ticker{{Symbol: "AAPL"}, {Symbol: "MSFT"}, {Symbol: "SPY"}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := data.NewYahooClient(log, false)
	seen := make(map[string]bool)
	var tickers []data.Ticker
	for _, t := range seed {
		if seen[t.Symbol] {
			continue
		}
		seen[t.Symbol] = true
		described, err := client.Describe(ctx, t.Symbol)
		if err != nil {
			// keep the seed entry so one bad lookup does not shrink the list
			log.Warn().Err(err).Str("symbol", t.Symbol).Msg("lookup failed")
			tickers = append(tickers, t)
			continue
		}
		tickers = append(tickers, described)
	}

	list := &data.Watchlist{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Tickers:   tickers,
	}
	if err := data.SaveWatchlist(list, *outputPath); err != nil {
		log.Fatal().Err(err).Msg("save watchlist")
	}
	log.Info().Int("count", len(tickers)).Str("path", *outputPath).Msg("watchlist saved")
}
