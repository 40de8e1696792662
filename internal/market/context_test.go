package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(start time.Time, step time.Duration, values ...float64) ValueSeries {
	out := make(ValueSeries, len(values))
	for i, v := range values {
		out[i] = Point{Timestamp: start.Add(time.Duration(i) * step), Value: v}
	}
	return out
}

func TestValueSeriesUntil(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := points(start, time.Hour, 1, 2, 3, 4, 5)

	trimmed := s.Until(start.Add(2 * time.Hour))
	require.Equal(t, 3, trimmed.Len())
	assert.Equal(t, 3.0, trimmed.Last())

	// Cutoff is inclusive.
	assert.Equal(t, 5, s.Until(start.Add(4*time.Hour)).Len())

	// Everything in the future drops to nil.
	assert.Nil(t, s.Until(start.Add(-time.Minute)))
}

func TestContextUntil(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ctx := &Context{
		Macro: map[string]ValueSeries{
			MacroDXY: points(start, time.Hour, 104, 105, 106, 107),
		},
		Intermarket: map[string]ValueSeries{
			IntermarketSilver: points(start, time.Hour, 24, 25, 26, 27),
		},
		Derivatives: &DerivativesContext{
			FundingRates: points(start, time.Hour, 0.0001, 0.0002, 0.0003, 0.0004),
			OpenInterest: points(start, time.Hour, 100, 110, 120, 130),
			MarkPrice:    2001.5,
			Liquidations: []Liquidation{{Long: 5, Short: 1}},
		},
		Sentiment: &SentimentContext{FearIndex: 0.2},
	}

	cut := ctx.Until(start.Add(time.Hour))

	assert.Equal(t, 2, cut.Macro[MacroDXY].Len())
	assert.Equal(t, 105.0, cut.Macro[MacroDXY].Last())
	assert.Equal(t, 2, cut.Intermarket[IntermarketSilver].Len())
	assert.Equal(t, 2, cut.Derivatives.FundingRates.Len())
	assert.Equal(t, 0.0002, cut.Derivatives.FundingRates.Last())
	assert.Equal(t, 2, cut.Derivatives.OpenInterest.Len())

	// Snapshot fields pass through untouched.
	assert.Equal(t, 2001.5, cut.Derivatives.MarkPrice)
	assert.Len(t, cut.Derivatives.Liquidations, 1)
	assert.Equal(t, 0.2, cut.Sentiment.FearIndex)

	// The source context is not mutated.
	assert.Equal(t, 4, ctx.Macro[MacroDXY].Len())
	assert.Equal(t, 4, ctx.Derivatives.FundingRates.Len())
}

func TestContextUntilNilReceiver(t *testing.T) {
	var ctx *Context
	assert.Nil(t, ctx.Until(time.Now()))
}
