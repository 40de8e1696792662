package feature

import (
	"fmt"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// ATRRegime ranks the current ATR against its last 50 readings. Always
// direction-neutral: volatility says how much to trust a move, not which way.
type ATRRegime struct {
	Period int
}

func NewATRRegime() *ATRRegime { return &ATRRegime{Period: 14} }

func (f *ATRRegime) Name() string                        { return "ATR" }
func (f *ATRRegime) Category() Category                  { return CategoryVolatility }
func (f *ATRRegime) Applicable(_ market.MarketType) bool { return true }

func (f *ATRRegime) Calculate(in Input) Result {
	series, ok := indicators.ATRSeries(in.Series, f.Period)
	if !ok || len(series) == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient history for ATR")
	}

	atr := series[len(series)-1]
	price := in.Series.Last().Close
	atrPct := 0.0
	if price != 0 {
		atrPct = atr / price * 100
	}

	percentile := 0.5
	if len(series) >= 50 {
		percentile = indicators.PercentileRank(series[len(series)-50:], atr)
	}

	var (
		strength    float64
		explanation string
	)
	switch {
	case percentile > 0.8:
		strength = 0.3
		explanation = fmt.Sprintf("ATR at %.2f%% (high volatility) - caution", atrPct)
	case percentile < 0.2:
		strength = 0.5
		explanation = fmt.Sprintf("ATR at %.2f%% (low volatility) - potential breakout", atrPct)
	default:
		strength = 0.2
		explanation = fmt.Sprintf("ATR at %.2f%% (normal volatility)", atrPct)
	}

	return New(f.Name(), f.Category(), atr, Neutral, strength, explanation, Metadata{
		ATRPct:     atrPct,
		Percentile: percentile,
	})
}

// BBWidth detects volatility squeezes and expansions from Bollinger band
// width relative to its 50-bar average.
type BBWidth struct {
	Period int
	StdDev float64
}

func NewBBWidth() *BBWidth { return &BBWidth{Period: 20, StdDev: 2} }

func (f *BBWidth) Name() string                        { return "BBWidth" }
func (f *BBWidth) Category() Category                  { return CategoryVolatility }
func (f *BBWidth) Applicable(_ market.MarketType) bool { return true }

func (f *BBWidth) Calculate(in Input) Result {
	widths, ok := indicators.BBWidthSeries(in.Series.Closes(), f.Period, f.StdDev)
	if !ok || len(widths) == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient history for BB width")
	}

	width := widths[len(widths)-1]
	avgWidth := width
	if len(widths) >= 50 {
		avgWidth = indicators.Mean(widths[len(widths)-50:])
	} else {
		avgWidth = indicators.Mean(widths)
	}

	squeeze := avgWidth > 0 && width < avgWidth*0.8

	var (
		strength    float64
		explanation string
	)
	switch {
	case squeeze:
		strength = 0.7
		explanation = fmt.Sprintf("BB squeeze detected (width: %.2f%%) - breakout likely", width)
	case width > avgWidth*1.5:
		strength = 0.5
		explanation = fmt.Sprintf("BB expansion (width: %.2f%%) - high volatility", width)
	default:
		strength = 0.2
		explanation = fmt.Sprintf("Normal BB width: %.2f%%", width)
	}

	return New(f.Name(), f.Category(), width, Neutral, strength, explanation, Metadata{
		AvgWidth: avgWidth,
		Squeeze:  squeeze,
	})
}
