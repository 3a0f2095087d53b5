package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zscore-backtest/internal/config"
	"zscore-backtest/internal/data"
	"zscore-backtest/internal/util"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// options holds the flags shared by every backtesting command.
type options struct {
	configPath string
	ticker     string
	start      string
	end        string
	source     string
	dataPath   string
	window     int
	threshold  float64
	deviation  string
	position   string
	pnlMode    string
	logLevel   string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "zscore",
		Short: "zscore - rolling Z-score mean reversion backtester",
		Long: `zscore backtests a mean reversion strategy on daily closes: it signals BUY when
the close is threshold standard deviations below its rolling mean, SELL when it is
threshold above, and reports PnL, yearly yield and the Sharpe ratio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(".env")
		},
	}

	rootCmd.AddCommand(newBacktestCmd(opts))
	rootCmd.AddCommand(newSweepCmd(opts))
	rootCmd.AddCommand(newRankCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&opts.ticker, "ticker", "", "Ticker symbol (overrides config)")
	pf.StringVar(&opts.start, "start", "", "Analysis start date YYYY-MM-DD")
	pf.StringVar(&opts.end, "end", "", "Analysis end date YYYY-MM-DD")
	pf.StringVar(&opts.source, "source", "", "Price source: yahoo or file")
	pf.StringVar(&opts.dataPath, "data", "", "Price file or directory for --source=file")
	pf.IntVar(&opts.window, "window", 0, "Rolling window length")
	pf.Float64Var(&opts.threshold, "threshold", 0, "Z-score threshold")
	pf.StringVar(&opts.deviation, "deviation", "", "population or sample")
	pf.StringVar(&opts.position, "starting-position", "", "flat, long or short")
	pf.StringVar(&opts.pnlMode, "pnl-mode", "", "price or return")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zscore %s\n", Version)
		},
	}
}

// resolve loads the configuration and applies the flags the user set.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if o.configPath != "" {
		loaded, err := config.LoadUnchecked(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	var ov config.Overrides
	if flags.Changed("window") {
		ov.Window = &o.window
	}
	if flags.Changed("threshold") {
		ov.Threshold = &o.threshold
	}
	ov.Deviation = o.deviation
	ov.StartingPosition = o.position
	ov.PnLMode = o.pnlMode
	cfg = cfg.Merge(ov)

	if o.ticker != "" {
		cfg.Ticker = o.ticker
	}
	if o.start != "" {
		cfg.StartDate = o.start
	}
	if o.end != "" {
		cfg.EndDate = o.end
	}
	if o.source != "" {
		cfg.Data.Source = o.source
	}
	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session bundles what a command needs to fetch prices and log.
type session struct {
	cfg    *config.Config
	log    zerolog.Logger
	source data.PriceSource
	close  func()
	start  time.Time
	end    time.Time
}

func (o *options) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}
	log := util.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel)
	start, end, err := cfg.Dates()
	if err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if start.IsZero() {
		start = end.AddDate(-1, 0, 0)
	}
	src, closeFn, err := cfg.PriceSource(ctx, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, source: src, close: closeFn, start: start, end: end}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
