package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteReport renders a human-readable performance report.
func WriteReport(w io.Writer, m *Metrics) {
	line := strings.Repeat("=", 72)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "BACKTEST PERFORMANCE REPORT")
	fmt.Fprintln(w, line)

	fmt.Fprintln(w, "\nOverall:")
	fmt.Fprintf(w, "  Total Trades:         %d\n", m.TotalTrades)
	fmt.Fprintf(w, "  Profitable:           %d (%.2f%%)\n", m.ProfitableTrades, m.WinRate)
	fmt.Fprintf(w, "  Losing:               %d\n", m.LosingTrades)
	fmt.Fprintf(w, "  Profit Factor:        %s\n", FormatProfitFactor(m.ProfitFactor))
	fmt.Fprintf(w, "  Average Win:          %+.2f%%\n", m.AvgWin)
	fmt.Fprintf(w, "  Average Loss:         %+.2f%%\n", m.AvgLoss)
	fmt.Fprintf(w, "  Average R:            %.2fR\n", m.AvgR)
	fmt.Fprintf(w, "  Max Consecutive Wins: %d\n", m.MaxConsecutiveWins)
	fmt.Fprintf(w, "  Max Consecutive Loss: %d\n", m.MaxConsecutiveLosses)
	fmt.Fprintf(w, "  Max Drawdown:         %.2f%%\n", m.MaxDrawdown)
	if m.SharpeRatio != nil {
		fmt.Fprintf(w, "  Sharpe Ratio:         %.2f\n", *m.SharpeRatio)
	}
	if m.SortinoRatio != nil {
		fmt.Fprintf(w, "  Sortino Ratio:        %.2f\n", *m.SortinoRatio)
	}

	fmt.Fprintln(w, "\nAdvanced:")
	if m.Expectancy != nil {
		fmt.Fprintf(w, "  Expectancy:           %+.2f%% per trade\n", *m.Expectancy)
	}
	if m.KellyCriterion != nil {
		fmt.Fprintf(w, "  Kelly Criterion:      %.2f%%\n", *m.KellyCriterion)
	}
	if m.RecoveryFactor != nil {
		fmt.Fprintf(w, "  Recovery Factor:      %.2f\n", *m.RecoveryFactor)
	}
	if m.MaxMAE != nil {
		fmt.Fprintf(w, "  Max MAE:              %.2f%%\n", *m.MaxMAE)
	}
	if m.MaxMFE != nil {
		fmt.Fprintf(w, "  Max MFE:              %.2f%%\n", *m.MaxMFE)
	}
	if m.AvgMAE != nil {
		fmt.Fprintf(w, "  Avg MAE:              %.2f%%\n", *m.AvgMAE)
	}
	if m.AvgMFE != nil {
		fmt.Fprintf(w, "  Avg MFE:              %.2f%%\n", *m.AvgMFE)
	}

	writeSegment(w, "By Confidence Level", m.ByConfidence)
	writeSegment(w, "By Signal Type", m.BySignal)
	writeSegment(w, "By Timeframe", m.ByTimeframe)

	fmt.Fprintln(w, line)
}

func writeSegment(w io.Writer, title string, stats map[string]SegmentStats) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s := stats[k]
		fmt.Fprintf(w, "  %-12s trades=%-4d win_rate=%.2f%% avg_r=%.2fR avg_pnl=%+.2f%%\n",
			k, s.Count, s.WinRate, s.AvgR, s.AvgPnL)
	}
}

// ExportCSV writes one row per simulated trade.
func ExportCSV(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "symbol", "timeframe", "signal", "confidence",
		"entry_price", "stop_loss", "take_profit",
		"max_favorable_excursion", "max_adverse_excursion",
		"exit_price", "exit_reason",
		"pnl_percent", "pnl_r", "duration_hours",
		"was_profitable", "hit_target", "hit_stop",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range outcomes {
		row := []string{
			o.ID,
			o.Symbol,
			string(o.Timeframe),
			o.Signal.String(),
			strconv.Itoa(o.Confidence),
			formatFloat(o.Entry),
			formatFloat(o.StopLoss),
			formatFloat(o.TakeProfit),
			formatFloat(o.MaxFavorable),
			formatFloat(o.MaxAdverse),
			formatFloat(o.ExitPrice),
			string(o.ExitReason),
			formatFloat(o.PnLPercent),
			formatFloat(o.PnLR),
			formatFloat(o.DurationHours),
			strconv.FormatBool(o.Profitable),
			strconv.FormatBool(o.HitTarget),
			strconv.FormatBool(o.HitStop),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
