package analysis

import "sort"

// Ranked pairs a label (ticker or variation name) with its summary.
type Ranked struct {
	Name string
	Summary
}

// RankBySharpe sorts descending by Sharpe ratio, breaking ties by yearly
// yield and then by name so the order is deterministic.
func RankBySharpe(items []Ranked) []Ranked {
	out := make([]Ranked, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SharpeRatio != out[j].SharpeRatio {
			return out[i].SharpeRatio > out[j].SharpeRatio
		}
		if out[i].YearlyYield != out[j].YearlyYield {
			return out[i].YearlyYield > out[j].YearlyYield
		}
		return out[i].Name < out[j].Name
	})
	return out
}
