package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
)

func longHistory(n int) market.Series {
	s := make(market.Series, n)
	ts := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	price := 1900.0
	for i := range s {
		price += 1.5 + 2*math.Sin(float64(i)/9)
		s[i] = market.Candle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      price - 1, High: price + 4, Low: price - 4, Close: price,
			Volume: 1200,
		}
	}
	return s
}

func TestRunner_WalkForward(t *testing.T) {
	engine := decision.NewEngine(feature.DefaultRegistry(), decision.Config{}, zerolog.Nop())
	runner := NewRunner(engine, zerolog.Nop())
	runner.Step = 10

	outcomes, m := runner.Run("XAUUSD", market.Spot, market.TF1h, longHistory(400), nil)

	require.NotNil(t, m)
	assert.Equal(t, len(outcomes), m.TotalTrades)
	for _, o := range outcomes {
		assert.NotEqual(t, "", o.ID)
		assert.NotZero(t, o.Entry)
		assert.Contains(t, []ExitReason{ExitTakeProfit, ExitStopLoss, ExitTimeout}, o.ExitReason)
	}
}

func TestRunner_TooShortHistoryNoTrades(t *testing.T) {
	engine := decision.NewEngine(feature.DefaultRegistry(), decision.Config{}, zerolog.Nop())
	runner := NewRunner(engine, zerolog.Nop())

	outcomes, m := runner.Run("XAUUSD", market.Spot, market.TF1h, longHistory(50), nil)
	assert.Empty(t, outcomes)
	assert.Equal(t, 0, m.TotalTrades)
}
