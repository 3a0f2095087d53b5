package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/data"
)

func newRankCmd(opts *options) *cobra.Command {
	var (
		tickers   string
		watchlist string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank tickers by Sharpe ratio",
		Long: `Backtest the same parameters over several tickers and rank them by Sharpe.
Tickers come from --tickers or, when omitted, from the watchlist file.
Example: zscore rank --tickers AAPL,MSFT,NVDA --window 20 --threshold 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := splitList(tickers)
			if len(symbols) == 0 {
				list, err := data.LoadWatchlist(watchlist)
				if err != nil {
					return err
				}
				for _, t := range list.Tickers {
					symbols = append(symbols, t.Symbol)
				}
			}
			if len(symbols) == 0 {
				return errors.New("no tickers to rank")
			}

			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.close()

			params, err := s.cfg.Params()
			if err != nil {
				return err
			}
			engine := backtest.New(s.log)

			var ranked []analysis.Ranked
			for _, sym := range symbols {
				ticker := data.NormalizeTicker(sym)
				series, err := data.FetchWithWarmup(cmd.Context(), s.source, ticker, s.start, s.end, params.Window)
				if err != nil {
					s.log.Warn().Err(err).Str("ticker", ticker).Msg("fetch failed, skipping")
					continue
				}
				res, err := engine.Run(ticker, series, params)
				if err != nil {
					s.log.Warn().Err(err).Str("ticker", ticker).Msg("backtest failed, skipping")
					continue
				}
				ranked = append(ranked, analysis.Ranked{Name: ticker, Summary: res.Summary})
			}
			if len(ranked) == 0 {
				return errors.New("every ticker failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderRanking("Tickers by Sharpe ratio", analysis.RankBySharpe(ranked)))
			return nil
		},
	}
	cmd.Flags().StringVar(&tickers, "tickers", "", "Comma-separated ticker symbols")
	cmd.Flags().StringVar(&watchlist, "watchlist", data.DefaultWatchlistPath(), "Watchlist JSON used when --tickers is empty")
	return cmd
}
