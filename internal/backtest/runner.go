package backtest

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

// Runner replays the decision engine over a historical series: at each
// step it evaluates a decision on the data seen so far, then simulates
// any resulting trade against the bars that follow.
type Runner struct {
	engine *decision.Engine
	log    zerolog.Logger

	// MinHistory is how many bars a decision needs before the first
	// evaluation. Defaults to 200 so the longest moving average is live.
	MinHistory int

	// Step is the bar stride between evaluations.
	Step int
}

func NewRunner(engine *decision.Engine, log zerolog.Logger) *Runner {
	return &Runner{
		engine:     engine,
		log:        log.With().Str("component", "backtest").Logger(),
		MinHistory: 200,
		Step:       1,
	}
}

// Run evaluates and simulates every eligible point of the series.
func (r *Runner) Run(symbol string, mt market.MarketType, tf market.Timeframe, series market.Series, ctx *market.Context) ([]Outcome, *Metrics) {
	var outcomes []Outcome

	step := r.Step
	if step < 1 {
		step = 1
	}

	for i := r.MinHistory; i < series.Len()-5; i += step {
		// Restrict context to observations up to the evaluation bar so
		// the replay never peeks past it.
		out := r.engine.Evaluate(feature.Input{
			Series:     series[:i],
			Symbol:     symbol,
			Timeframe:  tf,
			MarketType: mt,
			Context:    ctx.Until(series[i-1].Timestamp),
		})

		if out.Signal == rules.Neutral || out.Trade == nil {
			continue
		}

		rec := Record{
			ID:         fmt.Sprintf("%s-%s-%d", symbol, tf, i),
			Symbol:     symbol,
			Timeframe:  tf,
			Signal:     out.Signal,
			Confidence: out.Confidence,
			Entry:      out.Trade.Entry.InexactFloat64(),
			StopLoss:   out.Trade.StopLoss.InexactFloat64(),
			TakeProfit: out.Trade.TakeProfit.InexactFloat64(),
		}

		outcome, ok := Simulate(rec, series[i:])
		if !ok {
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	r.log.Info().
		Str("symbol", symbol).
		Str("timeframe", string(tf)).
		Int("bars", series.Len()).
		Int("trades", len(outcomes)).
		Msg("backtest complete")

	return outcomes, ComputeMetrics(outcomes)
}
