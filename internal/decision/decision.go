// Package decision wires feature scoring, the rule layer, consensus
// voting, and the quality overlay into one deterministic evaluation.
package decision

import (
	"github.com/rs/zerolog"

	"github.com/marketoracle/oracle/internal/consensus"
	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/quality"
	"github.com/marketoracle/oracle/internal/rules"
	"github.com/marketoracle/oracle/internal/scoring"
)

// ConsensusReport bundles the consensus read with its effect on the
// decision.
type ConsensusReport struct {
	Result     *consensus.Result `json:"result"`
	Summary    string            `json:"summary"`
	Adjustment string            `json:"adjustment"`
	Fired      bool              `json:"fired"`
	FireReason string            `json:"fire_reason"`
}

// Output is the complete decision for one (symbol, market, timeframe).
// It contains no timestamps or generated identifiers: identical inputs
// produce identical outputs. Persistence assigns IDs and times.
type Output struct {
	Symbol     string            `json:"symbol"`
	MarketType market.MarketType `json:"market_type"`
	Timeframe  market.Timeframe  `json:"timeframe"`

	Signal     rules.Signal `json:"signal"`
	Bias       rules.Bias   `json:"bias"`
	Confidence int          `json:"confidence"`

	Trade *rules.TradeParams `json:"trade,omitempty"`

	InvalidationConditions []string               `json:"invalidation_conditions"`
	TopDrivers             []scoring.Contribution `json:"top_drivers"`
	RawScore               float64                `json:"raw_score"`
	AdjustedScore          float64                `json:"adjusted_score"`
	Regime                 rules.RegimeContext    `json:"regime_context"`

	Consensus ConsensusReport    `json:"consensus"`
	Quality   quality.Assessment `json:"quality"`

	AllFeatures []feature.Result `json:"all_features"`

	// FailedFeatures lists calculators that panicked during scoring.
	FailedFeatures []string `json:"failed_features,omitempty"`
}

// Config tunes the full pipeline.
type Config struct {
	Rules rules.Config         `yaml:"rules"`
	Gate  consensus.GateConfig `yaml:"gate"`

	// EnforceConsensus downgrades the signal to NEUTRAL when the
	// consensus gates reject it. Off, the gate verdict is advisory and
	// only reported.
	EnforceConsensus bool `yaml:"enforce_consensus" default:"false"`

	// TopDriverCount is how many contributions are surfaced as drivers.
	TopDriverCount int `yaml:"top_driver_count" default:"5" validate:"gte=1"`

	// WeightOverrides replaces default per-feature weights by name.
	WeightOverrides map[string]float64 `yaml:"weight_overrides,omitempty"`
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		Rules:          rules.DefaultConfig(),
		Gate:           consensus.DefaultGateConfig(),
		TopDriverCount: 5,
	}
}

// Engine runs the pipeline. It is safe for concurrent use: every
// evaluation works on its own inputs and the registry is read-only.
type Engine struct {
	scorer    *scoring.Scorer
	rules     *rules.Engine
	consensus *consensus.Engine
	cfg       Config
	log       zerolog.Logger
}

func NewEngine(registry *feature.Registry, cfg Config, log zerolog.Logger) *Engine {
	if cfg.TopDriverCount == 0 {
		cfg.TopDriverCount = 5
	}
	if cfg.Gate.MinFeatures == 0 {
		cfg.Gate = consensus.DefaultGateConfig()
	}
	return &Engine{
		scorer:    scoring.NewScorer(registry, log),
		rules:     rules.NewEngine(cfg.Rules, log),
		consensus: consensus.NewEngine(),
		cfg:       cfg,
		log:       log.With().Str("component", "decision").Logger(),
	}
}

// Evaluate produces the decision for one input snapshot.
func (e *Engine) Evaluate(in feature.Input) *Output {
	l1 := e.scorer.Score(in, e.cfg.WeightOverrides)
	outcome := e.rules.Apply(l1, in.MarketType)

	cons := e.consensus.Analyze(l1.Features)
	adjustedConf, adjustment := e.consensus.AdjustConfidence(float64(outcome.Confidence), cons)
	confidence := int(adjustedConf)

	fired, fireReason := e.consensus.ShouldFire(cons, e.cfg.Gate)
	signal := outcome.Signal
	if e.cfg.EnforceConsensus && !fired {
		signal = rules.Neutral
	}

	topDrivers := l1.TopDrivers(e.cfg.TopDriverCount)

	assessment := quality.Assess(quality.Input{
		Series:     in.Series,
		Context:    in.Context,
		MarketType: in.MarketType,
		L1:         l1,
		Outcome:    outcome,
		TopDrivers: topDrivers,
	})
	signal, confidence = quality.ApplyFilters(&assessment, signal, confidence)

	bias := rules.BiasOf(signal)
	trade := rules.ComputeTradeParams(in.Series, signal, confidence, outcome.Regime.Volatility)

	out := &Output{
		Symbol:                 in.Symbol,
		MarketType:             in.MarketType,
		Timeframe:              in.Timeframe,
		Signal:                 signal,
		Bias:                   bias,
		Confidence:             confidence,
		Trade:                  trade,
		InvalidationConditions: rules.InvalidationConditions(l1, signal, outcome.Regime),
		TopDrivers:             topDrivers,
		RawScore:               l1.RawScore,
		AdjustedScore:          outcome.AdjustedScore,
		Regime:                 outcome.Regime,
		Consensus: ConsensusReport{
			Result:     cons,
			Summary:    e.consensus.Summary(cons),
			Adjustment: adjustment,
			Fired:      fired,
			FireReason: fireReason,
		},
		Quality:        assessment,
		AllFeatures:    l1.Features,
		FailedFeatures: l1.Failed,
	}

	e.log.Info().
		Str("symbol", in.Symbol).
		Str("timeframe", string(in.Timeframe)).
		Str("signal", signal.String()).
		Int("confidence", confidence).
		Float64("raw_score", l1.RawScore).
		Bool("consensus_fired", fired).
		Msg("decision evaluated")

	return out
}
