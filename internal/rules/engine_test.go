package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/scoring"
)

func testEngine() *Engine { return NewEngine(DefaultConfig(), zerolog.Nop()) }

// l1Result builds a minimal scored result with the given raw score.
func l1Result(raw float64, features []feature.Result, contribs []scoring.Contribution) *scoring.Result {
	return &scoring.Result{RawScore: raw, Features: features, Contributions: contribs}
}

func adxFeature(value float64) feature.Result {
	return feature.Result{Name: "ADX", Category: feature.CategoryTechnical, RawValue: value}
}

func atrFeature(percentile float64) feature.Result {
	return feature.Result{Name: "ATR", Category: feature.CategoryVolatility, Metadata: feature.Metadata{Percentile: percentile}}
}

func squeezeFeature() feature.Result {
	return feature.Result{Name: "BBWidth", Category: feature.CategoryVolatility, Metadata: feature.Metadata{Squeeze: true}}
}

func TestScoreToSignal_Ladder(t *testing.T) {
	tests := []struct {
		score      float64
		signal     Signal
		confidence int
	}{
		{5.0, StrongBuy, 50},
		{4.0, Buy, 40},
		{3.0, Buy, 30},
		{1.0, WeakBuy, 10},
		{0.0, Neutral, 0},
		{-1.0, WeakSell, 10},
		{-3.0, Sell, 30},
		{-5.0, StrongSell, 50},
		{-12.0, StrongSell, 100},
	}
	e := testEngine()
	for _, tt := range tests {
		out := e.Apply(l1Result(tt.score, nil, nil), market.Spot)
		assert.Equal(t, tt.signal, out.Signal, "score %.1f", tt.score)
		assert.Equal(t, tt.confidence, out.Confidence, "score %.1f", tt.score)
	}
}

func TestApply_RangingFilter(t *testing.T) {
	e := testEngine()
	out := e.Apply(l1Result(5.0, []feature.Result{adxFeature(15)}, nil), market.Spot)

	assert.InDelta(t, 3.0, out.AdjustedScore, 1e-9)
	assert.Equal(t, Buy, out.Signal)
	assert.Equal(t, TrendRanging, out.Regime.Trend)
	assert.Contains(t, out.Regime.FiltersApplied, FilterRangingTrend)
	// 30% base confidence discounted 0.7x in a ranging regime.
	assert.Equal(t, 21, out.Confidence)
}

func TestApply_HighVolAndSqueezeStack(t *testing.T) {
	e := testEngine()
	feats := []feature.Result{atrFeature(0.9), squeezeFeature()}
	out := e.Apply(l1Result(10.0, feats, nil), market.Spot)

	// 10 * 0.8 (high vol) * 0.5 (squeeze) = 4.0
	assert.InDelta(t, 4.0, out.AdjustedScore, 1e-9)
	assert.Equal(t, VolHigh, out.Regime.Volatility)
	assert.True(t, out.Regime.Squeeze)
	assert.ElementsMatch(t, []string{FilterHighVol, FilterSqueeze}, out.Regime.FiltersApplied)
}

func TestApply_TechMacroConflict(t *testing.T) {
	e := testEngine()
	contribs := []scoring.Contribution{
		{Name: "RSI", Category: feature.CategoryTechnical, Value: 2.5},
		{Name: "DXY", Category: feature.CategoryMacro, Value: -2.5},
	}
	out := e.Apply(l1Result(3.0, nil, contribs), market.Spot)

	assert.InDelta(t, 2.1, out.AdjustedScore, 1e-9)
	assert.Equal(t, ConflictTechMacro, out.Regime.Conflict)
	// 20% base confidence discounted 0.8x for the conflict.
	assert.Equal(t, 16, out.Confidence)
}

func TestApply_StackedDiscountsKeepFloatPrecision(t *testing.T) {
	e := testEngine()
	feats := []feature.Result{adxFeature(15)}
	contribs := []scoring.Contribution{
		{Name: "RSI", Category: feature.CategoryTechnical, Value: 2.5},
		{Name: "DXY", Category: feature.CategoryMacro, Value: -2.5},
	}
	out := e.Apply(l1Result(9.0, feats, contribs), market.Spot)

	// 9 * 0.6 (ranging) * 0.7 (conflict) = 3.78
	assert.InDelta(t, 3.78, out.AdjustedScore, 1e-9)
	// Confidence multiplies in float and truncates once:
	// 37.8 * 0.7 * 0.8 = 21.168 -> 21. Truncating between stages
	// would lose a point (37 -> 25 -> 20).
	assert.Equal(t, 21, out.Confidence)
}

func TestApply_NoConflictWhenAligned(t *testing.T) {
	e := testEngine()
	contribs := []scoring.Contribution{
		{Name: "RSI", Category: feature.CategoryTechnical, Value: 2.5},
		{Name: "DXY", Category: feature.CategoryMacro, Value: 2.5},
	}
	out := e.Apply(l1Result(5.0, nil, contribs), market.Spot)

	assert.Empty(t, out.Regime.Conflict)
	assert.InDelta(t, 5.0, out.AdjustedScore, 1e-9)
}

func TestApply_FundingContrarianBoost(t *testing.T) {
	e := testEngine()
	contribs := []scoring.Contribution{
		{Name: "FundingRate", Category: feature.CategoryCryptoDerivatives, Value: -0.6},
	}

	out := e.Apply(l1Result(3.0, nil, contribs), market.Perpetual)
	assert.InDelta(t, 3.6, out.AdjustedScore, 1e-9)
	assert.True(t, out.Regime.FundingConfirmation)

	// Spot markets never apply the funding rule.
	out = e.Apply(l1Result(3.0, nil, contribs), market.Spot)
	assert.InDelta(t, 3.0, out.AdjustedScore, 1e-9)
	assert.False(t, out.Regime.FundingConfirmation)
}

func TestApply_FundingAlignedNoBoost(t *testing.T) {
	e := testEngine()
	contribs := []scoring.Contribution{
		{Name: "FundingRate", Category: feature.CategoryCryptoDerivatives, Value: 0.6},
	}
	out := e.Apply(l1Result(3.0, nil, contribs), market.Perpetual)

	assert.InDelta(t, 3.0, out.AdjustedScore, 1e-9)
	assert.False(t, out.Regime.FundingConfirmation)
}

func TestConfigNormalize_FillsZeroes(t *testing.T) {
	cfg := Config{RangingFactor: 0.4}
	cfg.Normalize()

	assert.Equal(t, 0.4, cfg.RangingFactor)
	assert.Equal(t, 0.8, cfg.HighVolFactor)
	assert.Equal(t, 2.0, cfg.ConflictThreshold)
}
