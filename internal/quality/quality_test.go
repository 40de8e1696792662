package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
	"github.com/marketoracle/oracle/internal/scoring"
)

func driver(name string, cat feature.Category, direction int) scoring.Contribution {
	return scoring.Contribution{Name: name, Category: cat, Direction: direction, Strength: 0.5, Value: float64(direction) * 0.5}
}

func quietSeries(n int) market.Series {
	s := make(market.Series, n)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range s {
		s[i] = market.Candle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      100, High: 100.5, Low: 99.5, Close: 100,
			Volume: 1000,
		}
	}
	return s
}

func TestFeatureAgreement_Majority(t *testing.T) {
	drivers := []scoring.Contribution{
		driver("A", feature.CategoryTechnical, 1),
		driver("B", feature.CategoryTechnical, 1),
		driver("C", feature.CategoryMacro, 1),
		driver("D", feature.CategoryMacro, -1),
		driver("E", feature.CategorySentiment, 0),
	}
	// 3 of 4 directional drivers behind the majority; neutrals abstain.
	assert.InDelta(t, 75.0, featureAgreement(drivers), 1e-9)
}

func TestFeatureAgreement_EmptyDefaults(t *testing.T) {
	assert.InDelta(t, 50.0, featureAgreement(nil), 1e-9)
}

func TestFindConflicts_SplitCategory(t *testing.T) {
	drivers := []scoring.Contribution{
		driver("RSI", feature.CategoryTechnical, 1),
		driver("MACD", feature.CategoryTechnical, -1),
		driver("DXY", feature.CategoryMacro, 1),
	}

	conflicts := findConflicts(drivers)
	assert.Contains(t, conflicts, "RSI (bullish)")
	assert.Contains(t, conflicts, "MACD (bearish)")
	assert.NotContains(t, conflicts, "DXY (bullish)")
}

func TestDetectAnomalies_QuietMarket(t *testing.T) {
	assert.Zero(t, detectAnomalies(quietSeries(120), nil))
}

func TestDetectAnomalies_VolumeSpike(t *testing.T) {
	s := quietSeries(120)
	for i := len(s) - 10; i < len(s); i++ {
		s[i].Volume = 5000
	}
	assert.InDelta(t, 0.3, detectAnomalies(s, nil), 1e-9)
}

func TestDetectAnomalies_GapOnTwoBarSeries(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := market.Series{
		{Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000},
		{Timestamp: ts.Add(time.Hour), Open: 104, High: 105, Low: 103, Close: 104, Volume: 1000},
	}
	// 4% open gap on the minimum two-bar history still registers.
	assert.InDelta(t, 0.2, detectAnomalies(s, nil), 1e-9)
}

func TestDetectAnomalies_HighVIX(t *testing.T) {
	ctx := &market.Context{
		Macro: map[string]market.ValueSeries{
			"VIX": {{Timestamp: time.Now(), Value: 38}},
		},
	}
	assert.InDelta(t, 0.2, detectAnomalies(quietSeries(120), ctx), 1e-9)
}

func TestAssess_ProducesBoundedScores(t *testing.T) {
	in := Input{
		Series:     quietSeries(150),
		MarketType: market.Spot,
		L1:         &scoring.Result{RawScore: 3.2},
		Outcome: rules.Outcome{
			Signal:     rules.Buy,
			Confidence: 60,
			Regime:     rules.RegimeContext{Trend: rules.TrendDeveloping, Volatility: rules.VolNormal},
		},
		TopDrivers: []scoring.Contribution{
			driver("RSI", feature.CategoryTechnical, 1),
			driver("MACD", feature.CategoryTechnical, 1),
			driver("DXY", feature.CategoryMacro, 1),
		},
	}

	a := Assess(in)
	assert.GreaterOrEqual(t, a.QualityScore, 0.0)
	assert.LessOrEqual(t, a.QualityScore, 100.0)
	assert.InDelta(t, 100.0, a.FeatureAgreement, 1e-9)
	assert.Empty(t, a.ConflictingIndicators)
}

func TestApplyFilters_DowngradesStrongOnLowQuality(t *testing.T) {
	a := &Assessment{QualityScore: 42, FeatureAgreement: 80}
	signal, confidence := ApplyFilters(a, rules.StrongBuy, 70)

	assert.Equal(t, rules.Buy, signal)
	assert.Equal(t, 70, confidence)
	assert.Contains(t, a.Warnings[0], "downgraded from STRONG_BUY")

	a = &Assessment{QualityScore: 42, FeatureAgreement: 80}
	signal, _ = ApplyFilters(a, rules.StrongSell, 70)
	assert.Equal(t, rules.Sell, signal)
}

func TestApplyFilters_KeepsNonStrongSignals(t *testing.T) {
	a := &Assessment{QualityScore: 42, FeatureAgreement: 80}
	signal, _ := ApplyFilters(a, rules.Buy, 70)
	assert.Equal(t, rules.Buy, signal)
}

func TestApplyFilters_AnomalyAndAgreementDocks(t *testing.T) {
	a := &Assessment{QualityScore: 75, AnomalyScore: 0.8, FeatureAgreement: 40}
	signal, confidence := ApplyFilters(a, rules.Buy, 50)

	assert.Equal(t, rules.Buy, signal)
	// -15 anomaly, -10 agreement.
	assert.Equal(t, 25, confidence)
	assert.Len(t, a.Warnings, 2)
}

func TestApplyFilters_ConfidenceFloorsAtZero(t *testing.T) {
	a := &Assessment{QualityScore: 75, AnomalyScore: 0.9, FeatureAgreement: 10}
	_, confidence := ApplyFilters(a, rules.WeakSell, 5)
	assert.Equal(t, 0, confidence)
}
