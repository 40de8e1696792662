package feature

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// DXY: dollar strength is inversely correlated with gold and crypto.
type DXY struct{}

func NewDXY() *DXY { return &DXY{} }

func (f *DXY) Name() string                        { return "DXY" }
func (f *DXY) Category() Category                  { return CategoryMacro }
func (f *DXY) Applicable(_ market.MarketType) bool { return true }

func (f *DXY) Calculate(in Input) Result {
	series, ok := in.Context.MacroSeries(market.MacroDXY, 50)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "DXY data not available")
	}

	current := series.Last()
	changePct := pctChange(series.At(5), current)
	sma20, _ := indicators.SMALast(series.Values(), 20)

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case changePct > 1.0 && current > sma20:
		direction = Bearish
		strength = math.Min(1, math.Abs(changePct)/3)
		explanation = fmt.Sprintf("DXY rising %.2f%% - bearish for gold/crypto", changePct)
	case changePct < -1.0 && current < sma20:
		direction = Bullish
		strength = math.Min(1, math.Abs(changePct)/3)
		explanation = fmt.Sprintf("DXY falling %.2f%% - bullish for gold/crypto", changePct)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("DXY stable at %.2f", current)
	}

	return New(f.Name(), f.Category(), current, direction, strength, explanation, Metadata{
		ChangePct: changePct,
	})
}

// VIX: equity fear gauge. Above 35 it flips contrarian bullish; below 15
// complacency reads as mild caution.
type VIX struct{}

func NewVIX() *VIX { return &VIX{} }

func (f *VIX) Name() string                        { return "VIX" }
func (f *VIX) Category() Category                  { return CategoryMacro }
func (f *VIX) Applicable(_ market.MarketType) bool { return true }

func (f *VIX) Calculate(in Input) Result {
	series, ok := in.Context.MacroSeries(market.MacroVIX, 5)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "VIX data not available")
	}

	vix := series.Last()

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case vix > 35:
		direction = Bullish
		strength = math.Min(1, (vix-35)/30)
		explanation = fmt.Sprintf("VIX at %.2f - extreme fear, contrarian bullish", vix)
	case vix > 25:
		direction = Bearish
		strength = clamp01((vix - 25) / 15)
		explanation = fmt.Sprintf("VIX at %.2f - elevated fear, bearish", vix)
	case vix < 15:
		direction = Bearish
		strength = 0.3
		explanation = fmt.Sprintf("VIX at %.2f - complacency, caution", vix)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("VIX at %.2f - normal levels", vix)
	}

	return New(f.Name(), f.Category(), vix, direction, strength, explanation, Metadata{})
}

// Treasury10Y: rising nominal yields raise the opportunity cost of holding
// gold.
type Treasury10Y struct{}

func NewTreasury10Y() *Treasury10Y { return &Treasury10Y{} }

func (f *Treasury10Y) Name() string                        { return "Treasury10Y" }
func (f *Treasury10Y) Category() Category                  { return CategoryMacro }
func (f *Treasury10Y) Applicable(_ market.MarketType) bool { return true }

func (f *Treasury10Y) Calculate(in Input) Result {
	series, ok := in.Context.MacroSeries(market.MacroTNX, 5)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "Treasury data not available")
	}

	current := series.Last()
	change := current - series.At(10)

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case change > 0.1:
		direction = Bearish
		strength = math.Min(1, math.Abs(change)/0.5)
		explanation = fmt.Sprintf("10Y Treasury rising to %.2f%% (+%.2f%%) - bearish for gold", current, change)
	case change < -0.1:
		direction = Bullish
		strength = math.Min(1, math.Abs(change)/0.5)
		explanation = fmt.Sprintf("10Y Treasury falling to %.2f%% (%.2f%%) - bullish for gold", current, change)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("10Y Treasury stable at %.2f%%", current)
	}

	return New(f.Name(), f.Category(), current, direction, strength, explanation, Metadata{
		ChangePct: change,
	})
}

// RealYields: the key macro driver for gold. Uses a direct series when
// available, otherwise derives nominal minus inflation expectations.
type RealYields struct{}

func NewRealYields() *RealYields { return &RealYields{} }

func (f *RealYields) Name() string                        { return "RealYields" }
func (f *RealYields) Category() Category                  { return CategoryMacro }
func (f *RealYields) Applicable(_ market.MarketType) bool { return true }

func (f *RealYields) Calculate(in Input) Result {
	var current, change float64
	if series, ok := in.Context.MacroSeries(market.MacroRealYields, 10); ok {
		current = series.Last()
		change = current - series.At(10)
	} else {
		tnx, okTNX := in.Context.MacroSeries(market.MacroTNX, 1)
		infl, okInfl := in.Context.MacroSeries(market.MacroInflationExp, 1)
		if !okTNX || !okInfl {
			return Unavailable(f.Name(), f.Category(), "insufficient data for real yields")
		}
		current = tnx.Last() - infl.Last()
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case change > 0.1:
		direction = Bearish
		strength = math.Min(1, math.Abs(change)/0.5)
		explanation = fmt.Sprintf("Real yields rising to %.2f%% - bearish for gold", current)
	case change < -0.1:
		direction = Bullish
		strength = math.Min(1, math.Abs(change)/0.5)
		explanation = fmt.Sprintf("Real yields falling to %.2f%% - bullish for gold", current)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("Real yields stable at %.2f%%", current)
	}

	return New(f.Name(), f.Category(), current, direction, strength, explanation, Metadata{})
}

// InflationExpectations uses TIP price movement as a proxy for the real-yield
// direction: a rising TIP means falling real yields, bullish for gold.
type InflationExpectations struct{}

func NewInflationExpectations() *InflationExpectations { return &InflationExpectations{} }

func (f *InflationExpectations) Name() string                        { return "InflationExpectations" }
func (f *InflationExpectations) Category() Category                  { return CategoryMacro }
func (f *InflationExpectations) Applicable(_ market.MarketType) bool { return true }

func (f *InflationExpectations) Calculate(in Input) Result {
	tnx, okTNX := in.Context.MacroSeries(market.MacroTNX, 10)
	tip, okTIP := in.Context.MacroSeries(market.MacroTIP, 10)
	if !okTNX || !okTIP {
		return Unavailable(f.Name(), f.Category(), "Treasury/TIPS data not available")
	}

	nominal := tnx.Last()
	tipChange := pctChange(tip.At(10), tip.Last())

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case tipChange > 0.5:
		direction = Bullish
		strength = math.Min(1, math.Abs(tipChange)/2)
		explanation = "Inflation expectations rising - bullish for gold"
	case tipChange < -0.5:
		direction = Bearish
		strength = math.Min(1, math.Abs(tipChange)/2)
		explanation = "Inflation expectations falling - bearish for gold"
	default:
		direction = Neutral
		strength = 0.3
		explanation = "Inflation expectations stable"
	}

	return New(f.Name(), f.Category(), nominal, direction, strength, explanation, Metadata{
		ChangePct: tipChange,
	})
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
