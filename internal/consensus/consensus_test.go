package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/feature"
)

func fr(name string, cat feature.Category, direction int) feature.Result {
	return feature.Result{Name: name, Category: cat, Direction: direction, Strength: 0.5}
}

func bullBoard(n int) []feature.Result {
	out := make([]feature.Result, n)
	for i := range out {
		out[i] = fr("F", feature.CategoryTechnical, 1)
	}
	return out
}

func TestAnalyze_StrongConsensus(t *testing.T) {
	e := NewEngine()
	// 8 of 10 bullish = 80%.
	results := append(bullBoard(8),
		fr("A", feature.CategoryMacro, -1),
		fr("B", feature.CategoryMacro, 0),
	)

	c := e.Analyze(results)
	assert.Equal(t, 10, c.TotalFeatures)
	assert.Equal(t, 8, c.BullCount)
	assert.InDelta(t, 80.0, c.ConsensusPercentage, 1e-9)
	assert.Equal(t, StrongConsensus, c.AgreementLevel)
}

func TestAnalyze_AgreementTiers(t *testing.T) {
	tests := []struct {
		pct   float64
		level AgreementLevel
	}{
		{0.75, StrongConsensus},
		{0.74, ModerateConsensus},
		{0.60, ModerateConsensus},
		{0.55, WeakConsensus},
		{0.49, NoConsensus},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, classify(tt.pct), "pct %.2f", tt.pct)
	}
}

func TestAnalyze_SeedsAllCategories(t *testing.T) {
	c := NewEngine().Analyze(nil)
	for _, cat := range seedCategories {
		_, ok := c.CategoryVotes[cat]
		assert.True(t, ok, "missing seed category %s", cat)
	}
}

func TestAnalyze_DetectsTechMacroConflict(t *testing.T) {
	e := NewEngine()
	results := []feature.Result{
		fr("RSI", feature.CategoryTechnical, 1),
		fr("MACD", feature.CategoryTechnical, 1),
		fr("Stochastic", feature.CategoryTechnical, 1),
		fr("DXY", feature.CategoryMacro, -1),
		fr("VIX", feature.CategoryMacro, -1),
	}

	c := e.Analyze(results)
	require.Len(t, c.Conflicts, 1)
	assert.Contains(t, c.Conflicts[0], "TECHNICAL bullish")
	assert.Contains(t, c.Conflicts[0], "MACRO bearish")
}

func TestAnalyze_WeakSidesNoConflict(t *testing.T) {
	e := NewEngine()
	// Technical splits 2 bull / 1 bear / 1 neutral: 50% strength, below
	// the 60% significance bar.
	results := []feature.Result{
		fr("RSI", feature.CategoryTechnical, 1),
		fr("MACD", feature.CategoryTechnical, 1),
		fr("Stochastic", feature.CategoryTechnical, -1),
		fr("BB", feature.CategoryTechnical, 0),
		fr("DXY", feature.CategoryMacro, -1),
	}

	c := e.Analyze(results)
	assert.Empty(t, c.Conflicts)
}

func TestCategoryVotes_TieIsNeutral(t *testing.T) {
	v := CategoryVotes{Bull: 2, Bear: 2}
	assert.Equal(t, DirectionNeutral, v.Direction())
}

func TestAdjustConfidence_StrongAlignedBoost(t *testing.T) {
	e := NewEngine()
	c := &Result{
		ConsensusPercentage:    80,
		AgreementLevel:         StrongConsensus,
		CrossCategoryAgreement: 0.9,
	}

	adjusted, explanation := e.AdjustConfidence(60, c)
	// 60 * 1.15 * 1.10
	assert.InDelta(t, 75.9, adjusted, 1e-9)
	assert.Contains(t, explanation, "Strong consensus")
	assert.Contains(t, explanation, "High cross-category agreement")
}

func TestAdjustConfidence_ConflictPenalty(t *testing.T) {
	e := NewEngine()
	c := &Result{
		ConsensusPercentage:    55,
		AgreementLevel:         WeakConsensus,
		Conflicts:              []string{"a", "b"},
		CrossCategoryAgreement: 0.5,
	}

	adjusted, _ := e.AdjustConfidence(50, c)
	// 50 * 0.95 * (1 - 0.2)
	assert.InDelta(t, 38.0, adjusted, 1e-9)
}

func TestAdjustConfidence_ClampsAt100(t *testing.T) {
	e := NewEngine()
	c := &Result{AgreementLevel: StrongConsensus, CrossCategoryAgreement: 1.0}

	adjusted, _ := e.AdjustConfidence(95, c)
	assert.Equal(t, 100.0, adjusted)
}

func TestShouldFire_Gates(t *testing.T) {
	e := NewEngine()
	cfg := DefaultGateConfig()

	fire, reason := e.ShouldFire(&Result{ConsensusPercentage: 55, TotalFeatures: 10}, cfg)
	assert.False(t, fire)
	assert.Contains(t, reason, "below threshold")

	fire, reason = e.ShouldFire(&Result{ConsensusPercentage: 70, TotalFeatures: 10, Conflicts: []string{"x"}}, cfg)
	assert.False(t, fire)
	assert.Contains(t, reason, "Conflicts detected")

	fire, reason = e.ShouldFire(&Result{ConsensusPercentage: 70, TotalFeatures: 3}, cfg)
	assert.False(t, fire)
	assert.Contains(t, reason, "Insufficient features")

	fire, reason = e.ShouldFire(&Result{ConsensusPercentage: 70, TotalFeatures: 10}, cfg)
	assert.True(t, fire)
	assert.Contains(t, reason, "criteria met")
}

func TestShouldFire_AllowConflicts(t *testing.T) {
	e := NewEngine()
	cfg := GateConfig{MinConsensusPct: 60, AllowConflicts: true, MinFeatures: 5}

	fire, _ := e.ShouldFire(&Result{ConsensusPercentage: 70, TotalFeatures: 10, Conflicts: []string{"x"}}, cfg)
	assert.True(t, fire)
}

func TestSummary_MentionsDirectionAndConflicts(t *testing.T) {
	e := NewEngine()
	c := e.Analyze([]feature.Result{
		fr("RSI", feature.CategoryTechnical, 1),
		fr("MACD", feature.CategoryTechnical, 1),
		fr("DXY", feature.CategoryMacro, 1),
	})

	s := e.Summary(c)
	assert.Contains(t, s, "bullish")
	assert.Contains(t, s, "No conflicts detected")
}
