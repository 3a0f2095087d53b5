package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var ledgerHeader = []string{
	"index",
	"date",
	"close",
	"rolling_mean",
	"rolling_std",
	"z_score",
	"signal",
	"position",
	"daily_pnl",
	"cum_pnl",
}

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

// EncodeLedgerCSV writes the ledger with a header row. Undefined statistics
// are written as empty cells.
func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Time),
			fmtFloat(r.Close),
			r.Mean.String(),
			r.Std.String(),
			r.ZScore.String(),
			string(r.Signal),
			string(r.Position),
			fmtFloat(r.DailyPnL),
			fmtFloat(r.CumPnL),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
