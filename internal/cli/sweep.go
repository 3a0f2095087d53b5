package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/data"
)

func newSweepCmd(opts *options) *cobra.Command {
	var (
		windows     string
		thresholds  string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Backtest a grid of windows and thresholds",
		Long: `Run every window x threshold combination over one ticker and rank them by Sharpe.
Example: zscore sweep --ticker AAPL --windows 5,10,20 --thresholds 1,1.5,2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := parseInts(windows)
			if err != nil {
				return fmt.Errorf("--windows: %w", err)
			}
			ths, err := parseFloats(thresholds)
			if err != nil {
				return fmt.Errorf("--thresholds: %w", err)
			}

			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.close()

			base, err := s.cfg.Params()
			if err != nil {
				return err
			}
			warmup := 0
			for _, w := range ws {
				warmup = max(warmup, w)
			}
			ticker := data.NormalizeTicker(s.cfg.Ticker)
			series, err := data.FetchWithWarmup(cmd.Context(), s.source, ticker, s.start, s.end, warmup)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", ticker, err)
			}

			outcomes, err := backtest.New(s.log).Sweep(cmd.Context(), ticker, series, backtest.Grid(base, ws, ths), concurrency)
			if err != nil {
				return err
			}

			var ranked []analysis.Ranked
			for _, o := range outcomes {
				if o.Err != nil {
					s.log.Warn().Err(o.Err).Str("variation", o.Variation.Name).Msg("variation failed")
					continue
				}
				ranked = append(ranked, analysis.Ranked{Name: o.Variation.Name, Summary: o.Result.Summary})
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderRanking(ticker+" parameter sweep", analysis.RankBySharpe(ranked)))
			return nil
		},
	}
	cmd.Flags().StringVar(&windows, "windows", "5,10,20", "Comma-separated window lengths")
	cmd.Flags().StringVar(&thresholds, "thresholds", "1,1.5,2", "Comma-separated Z-score thresholds")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Variations run in parallel")
	return cmd
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range splitList(s) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
