package rules

import (
	"github.com/marketoracle/oracle/internal/scoring"
)

// TrendRegime classifies trend state from ADX.
type TrendRegime string

const (
	TrendRanging    TrendRegime = "RANGING"
	TrendDeveloping TrendRegime = "DEVELOPING"
	TrendTrending   TrendRegime = "TRENDING"
	TrendUnknown    TrendRegime = "UNKNOWN"
)

// TrendStrength is the coarse strength label paired with the trend regime.
type TrendStrength string

const (
	StrengthWeak     TrendStrength = "WEAK"
	StrengthModerate TrendStrength = "MODERATE"
	StrengthStrong   TrendStrength = "STRONG"
	StrengthUnknown  TrendStrength = "UNKNOWN"
)

// VolatilityRegime classifies volatility from the ATR percentile.
type VolatilityRegime string

const (
	VolLow     VolatilityRegime = "LOW"
	VolNormal  VolatilityRegime = "NORMAL"
	VolHigh    VolatilityRegime = "HIGH"
	VolUnknown VolatilityRegime = "UNKNOWN"
)

// RegimeContext is the market-state read the rule layer derives before
// filtering, and reports back alongside the final signal.
type RegimeContext struct {
	Trend         TrendRegime      `json:"trend"`
	TrendStrength TrendStrength    `json:"trend_strength"`
	Volatility    VolatilityRegime `json:"volatility"`
	Squeeze       bool             `json:"squeeze"`

	FiltersApplied      []string `json:"filters_applied,omitempty"`
	Conflict            string   `json:"conflict,omitempty"`
	FundingConfirmation bool     `json:"funding_confirmation,omitempty"`
}

// ADX regime boundaries.
const (
	adxRangingBelow  = 18.0
	adxTrendingAbove = 30.0
)

// analyzeRegime derives trend and volatility state from the ADX, ATR, and
// BBWidth feature results when present.
func analyzeRegime(l1 *scoring.Result) RegimeContext {
	ctx := RegimeContext{
		Trend:         TrendUnknown,
		TrendStrength: StrengthUnknown,
		Volatility:    VolUnknown,
	}

	if adx, ok := l1.Feature("ADX"); ok {
		switch {
		case adx.RawValue < adxRangingBelow:
			ctx.Trend = TrendRanging
			ctx.TrendStrength = StrengthWeak
		case adx.RawValue < adxTrendingAbove:
			ctx.Trend = TrendDeveloping
			ctx.TrendStrength = StrengthModerate
		default:
			ctx.Trend = TrendTrending
			ctx.TrendStrength = StrengthStrong
		}
	}

	if atr, ok := l1.Feature("ATR"); ok {
		switch {
		case atr.Metadata.Percentile > 0.8:
			ctx.Volatility = VolHigh
		case atr.Metadata.Percentile < 0.2:
			ctx.Volatility = VolLow
		default:
			ctx.Volatility = VolNormal
		}
	}

	if bbw, ok := l1.Feature("BBWidth"); ok && bbw.Metadata.Squeeze {
		ctx.Squeeze = true
	}

	return ctx
}
