package rules

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/scoring"
)

// Filter names reported in RegimeContext.FiltersApplied.
const (
	FilterRangingTrend = "ADX_LOW_REDUCED_TREND"
	FilterHighVol      = "HIGH_VOL_CAUTION"
	FilterSqueeze      = "BB_SQUEEZE_WAIT"
)

// ConflictTechMacro marks a strong technical/macro disagreement.
const ConflictTechMacro = "TECH_MACRO_DIVERGENCE"

// Config tunes the rule layer's multipliers. Zero values fall back to the
// defaults via Normalize.
type Config struct {
	RangingFactor     float64 `yaml:"ranging_factor" default:"0.6" validate:"gt=0,lte=1"`
	HighVolFactor     float64 `yaml:"high_vol_factor" default:"0.8" validate:"gt=0,lte=1"`
	SqueezeFactor     float64 `yaml:"squeeze_factor" default:"0.5" validate:"gt=0,lte=1"`
	ConflictFactor    float64 `yaml:"conflict_factor" default:"0.7" validate:"gt=0,lte=1"`
	FundingBoost      float64 `yaml:"funding_boost" default:"1.2" validate:"gte=1,lte=2"`
	ConflictThreshold float64 `yaml:"conflict_threshold" default:"2.0" validate:"gt=0"`
}

// DefaultConfig returns the standard rule multipliers.
func DefaultConfig() Config {
	return Config{
		RangingFactor:     0.6,
		HighVolFactor:     0.8,
		SqueezeFactor:     0.5,
		ConflictFactor:    0.7,
		FundingBoost:      1.2,
		ConflictThreshold: 2.0,
	}
}

// Normalize fills zero fields with defaults so a partially-specified
// config stays usable.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.RangingFactor == 0 {
		c.RangingFactor = d.RangingFactor
	}
	if c.HighVolFactor == 0 {
		c.HighVolFactor = d.HighVolFactor
	}
	if c.SqueezeFactor == 0 {
		c.SqueezeFactor = d.SqueezeFactor
	}
	if c.ConflictFactor == 0 {
		c.ConflictFactor = d.ConflictFactor
	}
	if c.FundingBoost == 0 {
		c.FundingBoost = d.FundingBoost
	}
	if c.ConflictThreshold == 0 {
		c.ConflictThreshold = d.ConflictThreshold
	}
}

// Outcome is the rule layer's verdict on one scored evaluation.
type Outcome struct {
	Signal        Signal        `json:"signal"`
	Bias          Bias          `json:"bias"`
	Confidence    int           `json:"confidence"`
	AdjustedScore float64       `json:"adjusted_score"`
	Regime        RegimeContext `json:"regime"`
}

// Engine applies regime filters, conflict resolution, and the score-to-
// signal mapping on top of a Layer-1 result.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	cfg.Normalize()
	return &Engine{cfg: cfg, log: log.With().Str("component", "rules").Logger()}
}

// Apply refines the raw weighted score into a signal, bias, and confidence.
func (e *Engine) Apply(l1 *scoring.Result, mt market.MarketType) Outcome {
	regime := analyzeRegime(l1)

	score := e.applyFilters(l1.RawScore, &regime)
	score = e.resolveConflicts(score, l1, mt, &regime)

	signal, bias, confidence := e.scoreToSignal(score, regime)

	e.log.Debug().
		Float64("raw_score", l1.RawScore).
		Float64("adjusted_score", score).
		Str("signal", signal.String()).
		Int("confidence", confidence).
		Str("trend", string(regime.Trend)).
		Str("volatility", string(regime.Volatility)).
		Msg("rules applied")

	return Outcome{
		Signal:        signal,
		Bias:          bias,
		Confidence:    confidence,
		AdjustedScore: score,
		Regime:        regime,
	}
}

// applyFilters dampens the score in regimes where trend-following is
// unreliable. Filters stack multiplicatively.
func (e *Engine) applyFilters(score float64, regime *RegimeContext) float64 {
	if regime.Trend == TrendRanging {
		score *= e.cfg.RangingFactor
		regime.FiltersApplied = append(regime.FiltersApplied, FilterRangingTrend)
	}
	if regime.Volatility == VolHigh {
		score *= e.cfg.HighVolFactor
		regime.FiltersApplied = append(regime.FiltersApplied, FilterHighVol)
	}
	if regime.Squeeze {
		score *= e.cfg.SqueezeFactor
		regime.FiltersApplied = append(regime.FiltersApplied, FilterSqueeze)
	}
	return score
}

// resolveConflicts dampens opposed technical/macro sub-scores and treats a
// crowded funding read against the signal as contrarian confirmation.
func (e *Engine) resolveConflicts(score float64, l1 *scoring.Result, mt market.MarketType, regime *RegimeContext) float64 {
	techScore := l1.CategoryScore(feature.CategoryTechnical)
	macroScore := l1.CategoryScore(feature.CategoryMacro)

	if math.Abs(techScore) > e.cfg.ConflictThreshold && math.Abs(macroScore) > e.cfg.ConflictThreshold &&
		techScore*macroScore < 0 {
		score *= e.cfg.ConflictFactor
		regime.Conflict = ConflictTechMacro
	}

	if mt.IsDerivatives() {
		for _, c := range l1.Contributions {
			if c.Name != "FundingRate" {
				continue
			}
			if (score > 0 && c.Value < -0.5) || (score < 0 && c.Value > 0.5) {
				score *= e.cfg.FundingBoost
				regime.FundingConfirmation = true
			}
			break
		}
	}

	return score
}

// Score thresholds for the seven-step signal ladder.
const (
	strongBuyAbove = 4.0
	buyAbove       = 2.0
	weakBuyAbove   = 0.5
	weakSellBelow  = -0.5
	sellBelow      = -2.0
	strongSellAt   = -4.0
)

// scoreToSignal maps the adjusted score onto the signal ladder and derives
// confidence, discounted in ranging or conflicted regimes.
func (e *Engine) scoreToSignal(score float64, regime RegimeContext) (Signal, Bias, int) {
	// A full-strength board lands around 10 either way. Confidence stays
	// float through the discounts and truncates once on return.
	confidence := math.Min(100, math.Abs(score)/10*100)

	var signal Signal
	switch {
	case score > strongBuyAbove:
		signal = StrongBuy
	case score > buyAbove:
		signal = Buy
	case score > weakBuyAbove:
		signal = WeakBuy
	case score > weakSellBelow:
		signal = Neutral
	case score > sellBelow:
		signal = WeakSell
	case score > strongSellAt:
		signal = Sell
	default:
		signal = StrongSell
	}

	if regime.Trend == TrendRanging && signal != Neutral {
		confidence *= 0.7
	}
	if regime.Conflict != "" {
		confidence *= 0.8
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return signal, BiasOf(signal), int(confidence)
}
