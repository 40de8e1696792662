package backtest

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

func outcome(pnl, r float64, signal rules.Signal, confidence int, tf market.Timeframe) Outcome {
	return Outcome{
		Record: Record{
			Symbol: "XAUUSD", Timeframe: tf,
			Signal: signal, Confidence: confidence,
		},
		PnLPercent: pnl,
		PnLR:       r,
		Profitable: pnl > 0,
	}
}

func TestComputeMetrics_Basics(t *testing.T) {
	outcomes := []Outcome{
		outcome(10, 2, rules.Buy, 75, market.TF1h),
		outcome(5, 1, rules.Buy, 75, market.TF1h),
		outcome(-5, -1, rules.Sell, 55, market.TF4h),
		outcome(-2, -0.4, rules.Buy, 90, market.TF1h),
	}

	m := ComputeMetrics(outcomes)
	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.ProfitableTrades)
	assert.Equal(t, 2, m.LosingTrades)
	assert.InDelta(t, 50.0, m.WinRate, 1e-9)
	assert.InDelta(t, 15.0/7.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 7.5, m.AvgWin, 1e-9)
	assert.InDelta(t, -3.5, m.AvgLoss, 1e-9)
}

func TestComputeMetrics_ProfitFactorInfWithoutLosses(t *testing.T) {
	m := ComputeMetrics([]Outcome{
		outcome(4, 1, rules.Buy, 70, market.TF1h),
		outcome(6, 1.5, rules.Buy, 70, market.TF1h),
	})

	assert.True(t, math.IsInf(m.ProfitFactor, 1))
	assert.Equal(t, "+Inf", FormatProfitFactor(m.ProfitFactor))
}

func TestComputeMetrics_Streaks(t *testing.T) {
	outcomes := []Outcome{
		outcome(1, 0.2, rules.Buy, 70, market.TF1h),
		outcome(2, 0.4, rules.Buy, 70, market.TF1h),
		outcome(3, 0.6, rules.Buy, 70, market.TF1h),
		outcome(-1, -0.2, rules.Sell, 70, market.TF1h),
		outcome(-1, -0.2, rules.Sell, 70, market.TF1h),
		outcome(4, 0.8, rules.Buy, 70, market.TF1h),
	}

	m := ComputeMetrics(outcomes)
	assert.Equal(t, 3, m.MaxConsecutiveWins)
	assert.Equal(t, 2, m.MaxConsecutiveLosses)
}

func TestComputeMetrics_KellyFloorsAtZero(t *testing.T) {
	// Mostly losers: raw Kelly is negative, reported as zero.
	m := ComputeMetrics([]Outcome{
		outcome(1, 0.2, rules.Buy, 70, market.TF1h),
		outcome(-5, -1, rules.Buy, 70, market.TF1h),
		outcome(-5, -1, rules.Buy, 70, market.TF1h),
		outcome(-5, -1, rules.Buy, 70, market.TF1h),
	})

	require.NotNil(t, m.KellyCriterion)
	assert.Equal(t, 0.0, *m.KellyCriterion)
}

func TestComputeMetrics_Segments(t *testing.T) {
	outcomes := []Outcome{
		outcome(10, 2, rules.Buy, 45, market.TF1h),
		outcome(-5, -1, rules.Sell, 65, market.TF4h),
		outcome(5, 1, rules.StrongBuy, 100, market.TF1h),
	}

	m := ComputeMetrics(outcomes)

	assert.Equal(t, 1, m.ByConfidence["0-50%"].Count)
	assert.Equal(t, 1, m.ByConfidence["50-70%"].Count)
	// Confidence 100 lands in the top bin.
	assert.Equal(t, 1, m.ByConfidence["85-100%"].Count)

	assert.Equal(t, 2, m.BySignal["BUY"].Count+m.BySignal["STRONG_BUY"].Count)
	assert.Equal(t, 2, m.ByTimeframe["1h"].Count)
	assert.Equal(t, 1, m.ByTimeframe["4h"].Count)
}

func TestComputeMetrics_EmptyIsSafe(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Nil(t, m.SharpeRatio)
}

func TestWriteReport_RendersSections(t *testing.T) {
	m := ComputeMetrics([]Outcome{
		outcome(10, 2, rules.Buy, 75, market.TF1h),
		outcome(-5, -1, rules.Sell, 55, market.TF4h),
	})

	var sb strings.Builder
	WriteReport(&sb, m)
	report := sb.String()

	assert.Contains(t, report, "Total Trades")
	assert.Contains(t, report, "Profitable")
	assert.Contains(t, report, "Profit Factor")
}

func TestExportCSV_HeaderAndRows(t *testing.T) {
	outcomes := []Outcome{
		outcome(10, 2, rules.Buy, 75, market.TF1h),
	}

	var sb strings.Builder
	require.NoError(t, ExportCSV(&sb, outcomes))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "exit_reason")
	assert.Contains(t, lines[1], "XAUUSD")
}
