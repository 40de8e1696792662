package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

func bars(ohlc ...[4]float64) market.Series {
	s := make(market.Series, len(ohlc))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, b := range ohlc {
		s[i] = market.Candle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      b[0], High: b[1], Low: b[2], Close: b[3],
			Volume: 1000,
		}
	}
	return s
}

func longRecord() Record {
	return Record{
		ID: "t-1", Symbol: "XAUUSD", Timeframe: market.TF1h,
		Signal: rules.Buy, Confidence: 70,
		Entry: 100, StopLoss: 95, TakeProfit: 115,
	}
}

func TestSimulate_LongTakeProfit(t *testing.T) {
	// High reaches 116 before the low ever trades down to 95.
	forward := bars(
		[4]float64{100, 104, 99, 103},
		[4]float64{103, 108, 101, 107},
		[4]float64{107, 116, 105, 114},
		[4]float64{114, 115, 110, 112},
		[4]float64{112, 113, 108, 110},
	)

	out, ok := Simulate(longRecord(), forward)
	require.True(t, ok)
	assert.Equal(t, ExitTakeProfit, out.ExitReason)
	assert.Equal(t, 115.0, out.ExitPrice)
	assert.True(t, out.HitTarget)
	assert.InDelta(t, 15.0, out.PnLPercent, 1e-9)
	assert.InDelta(t, 3.0, out.PnLR, 1e-9)
	assert.True(t, out.Profitable)
}

func TestSimulate_StopCheckedBeforeTargetSameBar(t *testing.T) {
	// One wide bar spans both levels; the pessimistic stop read wins.
	forward := bars(
		[4]float64{100, 120, 90, 100},
		[4]float64{100, 101, 99, 100},
		[4]float64{100, 101, 99, 100},
		[4]float64{100, 101, 99, 100},
		[4]float64{100, 101, 99, 100},
	)

	out, ok := Simulate(longRecord(), forward)
	require.True(t, ok)
	assert.Equal(t, ExitStopLoss, out.ExitReason)
	assert.Equal(t, 95.0, out.ExitPrice)
	assert.True(t, out.HitStop)
	assert.InDelta(t, -5.0, out.PnLPercent, 1e-9)
	assert.InDelta(t, -1.0, out.PnLR, 1e-9)
}

func TestSimulate_TimeoutAtLastClose(t *testing.T) {
	quiet := make([][4]float64, 60)
	for i := range quiet {
		quiet[i] = [4]float64{100, 101, 99, 102}
	}

	out, ok := Simulate(longRecord(), bars(quiet...))
	require.True(t, ok)
	assert.Equal(t, ExitTimeout, out.ExitReason)
	assert.Equal(t, 102.0, out.ExitPrice)
	// 1h window is 48 bars; exit on the last one.
	assert.InDelta(t, 47.0, out.DurationHours, 1e-9)
}

func TestSimulate_ShortTrade(t *testing.T) {
	rec := Record{
		ID: "t-2", Symbol: "BTCUSDT", Timeframe: market.TF1h,
		Signal: rules.Sell, Confidence: 70,
		Entry: 100, StopLoss: 105, TakeProfit: 90,
	}
	forward := bars(
		[4]float64{100, 102, 96, 97},
		[4]float64{97, 98, 89, 91},
		[4]float64{91, 93, 90, 92},
		[4]float64{92, 93, 90, 92},
		[4]float64{92, 93, 90, 92},
	)

	out, ok := Simulate(rec, forward)
	require.True(t, ok)
	assert.Equal(t, ExitTakeProfit, out.ExitReason)
	assert.Equal(t, 90.0, out.ExitPrice)
	assert.InDelta(t, 10.0, out.PnLPercent, 1e-9)
	assert.InDelta(t, 2.0, out.PnLR, 1e-9)
}

func TestSimulate_RejectsNeutralAndShortForward(t *testing.T) {
	rec := longRecord()
	rec.Signal = rules.Neutral
	_, ok := Simulate(rec, bars([4]float64{100, 101, 99, 100}))
	assert.False(t, ok)

	_, ok = Simulate(longRecord(), bars([4]float64{100, 101, 99, 100}))
	assert.False(t, ok)
}

func TestHoldingWindow(t *testing.T) {
	assert.Equal(t, 24, HoldingWindow(market.TF15m))
	assert.Equal(t, 48, HoldingWindow(market.TF1h))
	assert.Equal(t, 72, HoldingWindow(market.TF4h))
	assert.Equal(t, 30, HoldingWindow(market.TF1d))
	assert.Equal(t, 12, HoldingWindow(market.TF1w))
	assert.Equal(t, 48, HoldingWindow(market.Timeframe("3h")))
}
