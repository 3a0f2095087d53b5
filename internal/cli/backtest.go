package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"zscore-backtest/internal/backtest"
	"zscore-backtest/internal/data"
)

func newBacktestCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a backtest for one ticker",
		Long: `Run the Z-score strategy over one ticker and write the full ledger as CSV.
Example: zscore backtest --config examples/config.yaml --out results/aapl.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.close()

			params, err := s.cfg.Params()
			if err != nil {
				return err
			}
			series, err := data.FetchWithWarmup(cmd.Context(), s.source, s.cfg.Ticker, s.start, s.end, params.Window)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", s.cfg.Ticker, err)
			}

			res, err := backtest.New(s.log).Run(data.NormalizeTicker(s.cfg.Ticker), series, params)
			if err != nil {
				return err
			}

			if out != "" {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				if err := backtest.WriteLedgerCSV(out, res.Ledger); err != nil {
					return err
				}
				s.log.Info().Str("path", out).Int("rows", len(res.Ledger)).Msg("ledger written")
			}

			fmt.Fprintln(cmd.OutOrStdout(), RenderResult(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write the ledger CSV to this path")
	return cmd
}
