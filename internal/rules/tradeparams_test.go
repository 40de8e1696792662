package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/market"
)

// flatSeries yields a constant ATR: every bar spans high 101 / low 99
// around a 100 close, so true range is 2 throughout.
func flatSeries(n int) market.Series {
	s := make(market.Series, n)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range s {
		s[i] = market.Candle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100,
			Volume: 1000,
		}
	}
	return s
}

func TestComputeTradeParams_LongNormalVol(t *testing.T) {
	p := ComputeTradeParams(flatSeries(60), Buy, 85, VolNormal)
	require.NotNil(t, p)

	// ATR 2, normal-vol stop 2x: stop 96, risk 4, R:R 3 at >80 confidence.
	assert.True(t, p.Entry.Equal(decimal.NewFromInt(100)), "entry %s", p.Entry)
	assert.True(t, p.StopLoss.Equal(decimal.NewFromInt(96)), "stop %s", p.StopLoss)
	assert.True(t, p.TakeProfit.Equal(decimal.NewFromInt(112)), "target %s", p.TakeProfit)
	assert.True(t, p.RiskReward.Equal(decimal.NewFromFloat(3.0)))
}

func TestComputeTradeParams_ShortHighVol(t *testing.T) {
	p := ComputeTradeParams(flatSeries(60), Sell, 70, VolHigh)
	require.NotNil(t, p)

	// ATR 2, high-vol stop 2.5x: stop 105, risk 5, R:R 2.5 at 61-80.
	assert.True(t, p.StopLoss.Equal(decimal.NewFromInt(105)), "stop %s", p.StopLoss)
	assert.True(t, p.TakeProfit.Equal(decimal.NewFromFloat(87.5)), "target %s", p.TakeProfit)
	assert.True(t, p.RiskReward.Equal(decimal.NewFromFloat(2.5)))
}

func TestComputeTradeParams_LowConfidenceRR(t *testing.T) {
	p := ComputeTradeParams(flatSeries(60), WeakBuy, 40, VolNormal)
	require.NotNil(t, p)
	assert.True(t, p.RiskReward.Equal(decimal.NewFromFloat(2.0)))
}

func TestComputeTradeParams_NeutralNoParams(t *testing.T) {
	assert.Nil(t, ComputeTradeParams(flatSeries(60), Neutral, 90, VolNormal))
}

func TestComputeTradeParams_ShortHistoryNoParams(t *testing.T) {
	assert.Nil(t, ComputeTradeParams(flatSeries(5), Buy, 90, VolNormal))
}
