package decision

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/consensus"
	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

func trendingInput(n int) feature.Input {
	s := make(market.Series, n)
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	price := 2000.0
	for i := range s {
		// A steady advance with mild oscillation keeps most trend
		// features directional without pinning oscillators.
		price += 2 + math.Sin(float64(i)/5)
		s[i] = market.Candle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      price - 2,
			High:      price + 3,
			Low:       price - 3,
			Close:     price,
			Volume:    1500 + 100*math.Sin(float64(i)/7),
		}
	}
	return feature.Input{
		Series:     s,
		Symbol:     "XAUUSD",
		Timeframe:  market.TF1h,
		MarketType: market.Spot,
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	return NewEngine(feature.DefaultRegistry(), cfg, zerolog.Nop())
}

func TestEvaluate_ProducesCompleteOutput(t *testing.T) {
	e := newTestEngine(t, Config{})
	out := e.Evaluate(trendingInput(250))

	assert.Equal(t, "XAUUSD", out.Symbol)
	assert.Equal(t, market.TF1h, out.Timeframe)
	assert.GreaterOrEqual(t, out.Confidence, 0)
	assert.LessOrEqual(t, out.Confidence, 100)
	assert.NotEmpty(t, out.AllFeatures)
	assert.LessOrEqual(t, len(out.TopDrivers), 5)
	assert.NotNil(t, out.Consensus.Result)
	assert.NotEmpty(t, out.Consensus.Summary)
	if out.Signal != rules.Neutral {
		require.NotNil(t, out.Trade)
		assert.False(t, out.Trade.Entry.IsZero())
	} else {
		assert.Nil(t, out.Trade)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEngine(t, Config{})
	in := trendingInput(250)

	first, err := json.Marshal(e.Evaluate(in))
	require.NoError(t, err)
	second, err := json.Marshal(e.Evaluate(in))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEvaluate_EnforceConsensusGatesSignal(t *testing.T) {
	// An impossible gate forces every decision back to neutral.
	cfg := Config{
		EnforceConsensus: true,
		Gate:             consensus.GateConfig{MinConsensusPct: 101, MinFeatures: 1},
	}
	e := newTestEngine(t, cfg)
	out := e.Evaluate(trendingInput(250))

	assert.Equal(t, rules.Neutral, out.Signal)
	assert.False(t, out.Consensus.Fired)
	assert.Nil(t, out.Trade)
}

func TestEvaluate_WeightOverridesShiftScore(t *testing.T) {
	in := trendingInput(250)

	base := newTestEngine(t, Config{}).Evaluate(in)

	zeroed := map[string]float64{}
	for _, f := range base.AllFeatures {
		zeroed[f.Name] = 0
	}
	muted := newTestEngine(t, Config{WeightOverrides: zeroed}).Evaluate(in)

	assert.Zero(t, muted.RawScore)
	assert.Equal(t, rules.Neutral, muted.Signal)
}

func TestEvaluate_ShortHistoryStaysNeutralish(t *testing.T) {
	e := newTestEngine(t, Config{})
	out := e.Evaluate(trendingInput(10))

	// Nearly every calculator reports unavailable; the score cannot
	// reach the outer signal bands.
	assert.InDelta(t, 0, out.RawScore, 2.0)
}
