package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"zscore-backtest/internal/analysis"
	"zscore-backtest/internal/backtest"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(18)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// RenderResult formats a single backtest: parameters, coverage and summary.
func RenderResult(res *backtest.Result) string {
	p := res.Params
	rows := [][2]string{
		{"Window", fmt.Sprintf("%d", p.Window)},
		{"Threshold", fmt.Sprintf("%g", p.Threshold)},
		{"Deviation", string(p.Deviation)},
		{"PnL mode", string(p.PnLMode)},
	}
	if n := len(res.Ledger); n > 0 {
		rows = append(rows, [2]string{"Period", fmt.Sprintf("%s .. %s",
			res.Ledger[0].Time.Format(time.DateOnly), res.Ledger[n-1].Time.Format(time.DateOnly))})
	}
	s := res.Summary
	rows = append(rows,
		[2]string{"Trading days", fmt.Sprintf("%d", s.TradingDays)},
		[2]string{"Total PnL", signed(s.TotalPnL, "%.4f")},
		[2]string{"Yearly yield", signed(s.YearlyYield, "%.4f")},
		[2]string{"Sharpe ratio", signed(s.SharpeRatio, "%.4f")},
		[2]string{"Max drawdown", fmt.Sprintf("%.4f", s.MaxDrawdown)},
		[2]string{"Buy signals", fmt.Sprintf("%d", s.BuyCount)},
		[2]string{"Sell signals", fmt.Sprintf("%d", s.SellCount)},
	)
	if avg, ok := averageHolding(s.HoldingPeriods); ok {
		rows = append(rows, [2]string{"Avg holding", fmt.Sprintf("%.1f days", avg.Hours()/24)})
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(r[1])
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(res.Ticker+" mean reversion backtest"),
		panelStyle.Render(b.String()),
	)
}

// RenderRanking formats ranked summaries as a table, best first.
func RenderRanking(title string, ranked []analysis.Ranked) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-16s %10s %12s %12s %6s %6s",
		"rank", "name", "sharpe", "yield", "total_pnl", "buys", "sells")))
	for i, r := range ranked {
		b.WriteByte('\n')
		line := fmt.Sprintf("%-4d %-16s %10.4f %12.4f %12.4f %6d %6d",
			i+1, r.Name, r.SharpeRatio, r.YearlyYield, r.TotalPnL, r.BuyCount, r.SellCount)
		if r.SharpeRatio < 0 {
			line = lossStyle.Render(line)
		}
		b.WriteString(line)
	}
	if len(ranked) == 0 {
		b.WriteString("\nno results")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		panelStyle.Render(b.String()),
	)
}

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v > 0:
		return gainStyle.Render(s)
	case v < 0:
		return lossStyle.Render(s)
	}
	return s
}

func averageHolding(periods []time.Duration) (time.Duration, bool) {
	if len(periods) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, d := range periods {
		total += d
	}
	return total / time.Duration(len(periods)), true
}
