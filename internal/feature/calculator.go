package feature

import "github.com/marketoracle/oracle/internal/market"

// Input is the read-only snapshot one evaluation works from. Calculators
// never mutate it, so a single Input may be shared across calculators.
type Input struct {
	Series     market.Series
	Symbol     string
	Timeframe  market.Timeframe
	MarketType market.MarketType
	Context    *market.Context
}

// Calculator computes one feature. Implementations must not panic on
// missing context or short history; they return a neutral Result carrying an
// explanation instead. A panic is treated as a calculator bug and recovered
// at the scoring boundary.
type Calculator interface {
	Name() string
	Category() Category

	// Applicable reports whether the feature makes sense for the market
	// type (funding-rate analysis has no meaning on spot, for example).
	Applicable(mt market.MarketType) bool

	Calculate(in Input) Result
}
