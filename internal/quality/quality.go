// Package quality scores how trustworthy a decision is and flags unusual
// market conditions before anything acts on the signal.
package quality

import (
	"math"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
	"github.com/marketoracle/oracle/internal/scoring"
)

// Assessment is the quality overlay attached to a decision.
type Assessment struct {
	// QualityScore is 0-100: a weighted blend of agreement, confidence,
	// regime alignment, data completeness, and signal strength.
	QualityScore float64 `json:"quality_score"`

	// FeatureAgreement is the majority-direction share among the top
	// drivers, 0-100.
	FeatureAgreement float64 `json:"feature_agreement"`

	// AnomalyScore is 0-1; higher means more unusual conditions.
	AnomalyScore float64 `json:"anomaly_score"`

	// ConflictingIndicators names top drivers whose category disagrees
	// internally.
	ConflictingIndicators []string `json:"conflicting_indicators,omitempty"`

	Warnings []string `json:"validation_warnings,omitempty"`
}

// Input carries everything the overlay inspects.
type Input struct {
	Series     market.Series
	Context    *market.Context
	MarketType market.MarketType

	L1         *scoring.Result
	Outcome    rules.Outcome
	TopDrivers []scoring.Contribution
}

// Assess computes the overlay for one decision.
func Assess(in Input) Assessment {
	agreement := featureAgreement(in.TopDrivers)
	anomaly := detectAnomalies(in.Series, in.Context)

	a := Assessment{
		FeatureAgreement:      agreement,
		AnomalyScore:          anomaly,
		ConflictingIndicators: findConflicts(in.TopDrivers),
	}
	a.QualityScore = qualityScore(in, agreement)
	a.Warnings = warnings(in.Outcome, anomaly, agreement)
	return a
}

// qualityScore blends agreement 30%, confidence 20%, regime alignment 20%,
// data completeness 15%, and signal strength 15%.
func qualityScore(in Input, agreement float64) float64 {
	score := agreement * 0.3
	score += float64(in.Outcome.Confidence) * 0.2
	score += regimeAlignment(in.Outcome, in.L1) * 0.2
	score += dataQuality(in.Series, in.Context, in.MarketType) * 0.15

	strength := math.Abs(in.L1.RawScore) / 50.0
	if strength > 1 {
		strength = 1
	}
	score += strength * 0.15 * 100

	if score > 100 {
		score = 100
	}
	return score
}

func featureAgreement(drivers []scoring.Contribution) float64 {
	if len(drivers) == 0 {
		return 50.0
	}
	bull, bear := 0, 0
	for _, d := range drivers {
		switch {
		case d.Direction > 0:
			bull++
		case d.Direction < 0:
			bear++
		}
	}
	total := bull + bear
	if total == 0 {
		return 50.0
	}
	majority := bull
	if bear > majority {
		majority = bear
	}
	return float64(majority) / float64(total) * 100
}

// detectAnomalies flags volatility spikes, volume deviations, price gaps,
// and elevated macro fear. Each check adds a fixed increment, capped at 1.
func detectAnomalies(s market.Series, ctx *market.Context) float64 {
	score := 0.0

	if s.Len() > 20 {
		returns := indicators.Returns(s.Closes())
		if len(returns) > 10 {
			recentVol := indicators.StdDev(returns[len(returns)-10:])
			historicalVol := indicators.StdDev(returns)
			if recentVol > historicalVol*2 {
				score += 0.3
			}
		}

		volumes := s.Volumes()
		recentVolume := indicators.Mean(volumes[len(volumes)-10:])
		avgVolume := indicators.Mean(volumes)
		if avgVolume > 0 && (recentVolume > avgVolume*3 || recentVolume < avgVolume*0.3) {
			score += 0.3
		}
	}

	if s.Len() >= 2 {
		lastClose := s[s.Len()-2].Close
		currentOpen := s.Last().Open
		if lastClose != 0 {
			gapPct := math.Abs((currentOpen-lastClose)/lastClose) * 100
			if gapPct > 2 {
				score += 0.2
			}
		}
	}

	if vix, ok := ctx.MacroSeries(market.MacroVIX, 1); ok && vix.Last() > 30 {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}

// findConflicts names top drivers from categories whose drivers split both
// ways.
func findConflicts(drivers []scoring.Contribution) []string {
	byCategory := make(map[feature.Category][]scoring.Contribution)
	for _, d := range drivers {
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	var conflicts []string
	for _, members := range byCategory {
		if len(members) < 2 {
			continue
		}
		var bull, bear []scoring.Contribution
		for _, m := range members {
			switch {
			case m.Direction > 0:
				bull = append(bull, m)
			case m.Direction < 0:
				bear = append(bear, m)
			}
		}
		if len(bull) > 0 && len(bear) > 0 {
			for _, m := range bear {
				conflicts = append(conflicts, m.Name+" (bearish)")
			}
			for _, m := range bull {
				conflicts = append(conflicts, m.Name+" (bullish)")
			}
		}
	}
	return conflicts
}

// regimeAlignment scores how well the signal fits the detected regime.
// Trend-following signals in a trending regime score above the 50 anchor;
// counter-trend and strong-signal-in-high-vol reads score below it.
func regimeAlignment(out rules.Outcome, l1 *scoring.Result) float64 {
	score := 50.0

	if out.Regime.Trend == rules.TrendTrending {
		if adx, ok := l1.Feature("ADX"); ok && adx.Direction != 0 {
			aligned := (out.Bias == rules.BiasBullish && adx.Direction > 0) ||
				(out.Bias == rules.BiasBearish && adx.Direction < 0)
			if aligned {
				score += 25
			} else if out.Bias != rules.BiasNeutral {
				score -= 15
			}
		}
	}

	if out.Regime.Volatility == rules.VolHigh &&
		(out.Signal == rules.StrongBuy || out.Signal == rules.StrongSell) {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// dataQuality rates completeness of the inputs, 0-100.
func dataQuality(s market.Series, ctx *market.Context, mt market.MarketType) float64 {
	score := 100.0

	if s.Len() < 100 {
		score -= 20
	}
	if ctx == nil || len(ctx.Macro) == 0 {
		score -= 10
	}
	if mt.IsDerivatives() && ctx.Derivs() == nil {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	return score
}

func warnings(out rules.Outcome, anomaly, agreement float64) []string {
	var w []string
	if agreement < 60 {
		w = append(w, warnLowAgreement(agreement))
	}
	if anomaly > 0.5 {
		w = append(w, warnAnomaly(anomaly))
	}
	if out.Confidence < 60 && (out.Signal == rules.StrongBuy || out.Signal == rules.StrongSell) {
		w = append(w, warnWeakStrongSignal(out))
	}
	return w
}
