package feature

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// FundingRate reads perp funding as a crowding signal. Extreme positive
// funding means crowded longs and squeeze risk, extreme negative the
// mirror image.
type FundingRate struct{}

func NewFundingRate() *FundingRate { return &FundingRate{} }

func (f *FundingRate) Name() string                         { return "FundingRate" }
func (f *FundingRate) Category() Category                   { return CategoryCryptoDerivatives }
func (f *FundingRate) Applicable(mt market.MarketType) bool { return mt.IsDerivatives() }

func (f *FundingRate) Calculate(in Input) Result {
	d := in.Context.Derivs()
	if d == nil || d.FundingRates.Len() == 0 {
		return Unavailable(f.Name(), f.Category(), "funding rate data not available")
	}

	funding := d.FundingRates.Last()
	// 8h funding, three settlements a day.
	annualPct := funding * 3 * 365 * 100

	percentile := 0.5
	rates := d.FundingRates.Values()
	if len(rates) >= 30 {
		percentile = indicators.PercentileRank(rates[len(rates)-30:], funding)
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case funding > 0.05 && percentile > 0.8:
		direction = Bearish
		strength = math.Min(1, (funding-0.05)/0.05)
		explanation = fmt.Sprintf("Funding extremely positive (%.1f%% annual) - crowded longs, risk of squeeze", annualPct)
	case funding < -0.02 && percentile < 0.2:
		direction = Bullish
		strength = math.Min(1, math.Abs(funding)/0.05)
		explanation = fmt.Sprintf("Funding negative (%.1f%% annual) - crowded shorts, risk of squeeze", annualPct)
	case funding > 0.01:
		direction = Bearish
		strength = 0.3
		explanation = fmt.Sprintf("Funding moderately positive (%.1f%% annual)", annualPct)
	case funding < -0.01:
		direction = Bullish
		strength = 0.3
		explanation = fmt.Sprintf("Funding moderately negative (%.1f%% annual)", annualPct)
	default:
		direction = Neutral
		strength = 0.1
		explanation = fmt.Sprintf("Funding neutral (%.1f%% annual)", annualPct)
	}

	return New(f.Name(), f.Category(), funding, direction, strength, explanation, Metadata{
		AnnualizedPct: annualPct,
		Percentile:    percentile,
	})
}

// OpenInterest reads leverage buildup against price direction. Rising OI
// with price is new longs; rising OI against price is new shorts; falling
// OI is covering rather than conviction, so the signal is weaker.
type OpenInterest struct{}

func NewOpenInterest() *OpenInterest { return &OpenInterest{} }

func (f *OpenInterest) Name() string                         { return "OpenInterest" }
func (f *OpenInterest) Category() Category                   { return CategoryCryptoDerivatives }
func (f *OpenInterest) Applicable(mt market.MarketType) bool { return mt.IsDerivatives() }

func (f *OpenInterest) Calculate(in Input) Result {
	d := in.Context.Derivs()
	if d == nil || d.OpenInterest.Len() == 0 {
		return Unavailable(f.Name(), f.Category(), "open interest data not available")
	}

	currentOI := d.OpenInterest.Last()
	oiChangePct := pctChange(d.OpenInterest.At(5), currentOI)

	closes := in.Series.Closes()
	if len(closes) < 6 {
		return Unavailable(f.Name(), f.Category(), "insufficient price history")
	}
	priceChangePct := pctChange(closes[len(closes)-6], closes[len(closes)-1])

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case oiChangePct > 5.0 && priceChangePct > 2.0:
		direction = Bullish
		strength = math.Min(1, oiChangePct/15)
		explanation = fmt.Sprintf("OI rising %.1f%% with price - new longs entering", oiChangePct)
	case oiChangePct > 5.0 && priceChangePct < -2.0:
		direction = Bearish
		strength = math.Min(1, oiChangePct/15)
		explanation = fmt.Sprintf("OI rising %.1f%% against price - new shorts entering", oiChangePct)
	case oiChangePct > 5.0:
		direction = Neutral
		strength = 0.4
		explanation = fmt.Sprintf("OI rising %.1f%% - leverage building", oiChangePct)
	case oiChangePct < -5.0 && priceChangePct > 2.0:
		direction = Bullish
		strength = 0.5
		explanation = fmt.Sprintf("OI falling %.1f%% with price up - short covering", oiChangePct)
	case oiChangePct < -5.0 && priceChangePct < -2.0:
		direction = Bearish
		strength = 0.5
		explanation = fmt.Sprintf("OI falling %.1f%% with price down - long unwinding", oiChangePct)
	case oiChangePct < -5.0:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("OI falling %.1f%% - delevering", oiChangePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("OI stable (%+.1f%%)", oiChangePct)
	}

	return New(f.Name(), f.Category(), currentOI, direction, strength, explanation, Metadata{
		ChangePct:   oiChangePct,
		PriceChange: priceChangePct,
	})
}

// Basis compares mark price to the spot index. Premiums read bullish,
// discounts bearish, with a tighter band on the downside.
type Basis struct{}

func NewBasis() *Basis { return &Basis{} }

func (f *Basis) Name() string                         { return "Basis" }
func (f *Basis) Category() Category                   { return CategoryCryptoDerivatives }
func (f *Basis) Applicable(mt market.MarketType) bool { return mt.IsDerivatives() }

func (f *Basis) Calculate(in Input) Result {
	d := in.Context.Derivs()
	if d == nil || d.MarkPrice == 0 || d.IndexPrice == 0 {
		return Unavailable(f.Name(), f.Category(), "mark/index price not available")
	}

	basisPct := (d.MarkPrice - d.IndexPrice) / d.IndexPrice * 100

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case basisPct > 0.5:
		direction = Bullish
		strength = math.Min(1, basisPct/2)
		explanation = fmt.Sprintf("Perp trading at %.2f%% premium - bullish sentiment", basisPct)
	case basisPct < -0.2:
		direction = Bearish
		strength = math.Min(1, math.Abs(basisPct)/1)
		explanation = fmt.Sprintf("Perp trading at %.2f%% discount - bearish sentiment", basisPct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("Basis near parity (%+.2f%%)", basisPct)
	}

	return New(f.Name(), f.Category(), basisPct, direction, strength, explanation, Metadata{})
}

// Liquidations treats liquidation cascades as contrarian: a long flush
// often marks a bottom, a short flush a top.
type Liquidations struct{}

func NewLiquidations() *Liquidations { return &Liquidations{} }

func (f *Liquidations) Name() string                         { return "Liquidations" }
func (f *Liquidations) Category() Category                   { return CategoryCryptoDerivatives }
func (f *Liquidations) Applicable(mt market.MarketType) bool { return mt.IsDerivatives() }

func (f *Liquidations) Calculate(in Input) Result {
	d := in.Context.Derivs()
	if d == nil || len(d.Liquidations) == 0 {
		return Unavailable(f.Name(), f.Category(), "liquidation data not available")
	}

	latest := d.Liquidations[len(d.Liquidations)-1]
	total := latest.Total()

	avg := total
	if n := len(d.Liquidations); n >= 2 {
		window := d.Liquidations
		if n > 20 {
			window = window[n-20:]
		}
		sum := 0.0
		for _, l := range window {
			sum += l.Total()
		}
		avg = sum / float64(len(window))
	}

	longPct, shortPct := 0.5, 0.5
	if total > 0 {
		longPct = latest.Long / total
		shortPct = latest.Short / total
	}

	liqRatio := 1.0
	if avg > 0 {
		liqRatio = total / avg
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case liqRatio > 3.0 && longPct > 0.7:
		direction = Bullish
		strength = math.Min(1, (liqRatio-3)/5)
		explanation = fmt.Sprintf("Large long liquidations (%.1fx avg) - potential bottom", liqRatio)
	case liqRatio > 3.0 && shortPct > 0.7:
		direction = Bearish
		strength = math.Min(1, (liqRatio-3)/5)
		explanation = fmt.Sprintf("Large short liquidations (%.1fx avg) - potential top", liqRatio)
	case liqRatio > 3.0:
		direction = Neutral
		strength = 0.5
		explanation = fmt.Sprintf("Mixed liquidations (%.1fx avg)", liqRatio)
	default:
		direction = Neutral
		strength = 0.1
		explanation = "Normal liquidation levels"
	}

	return New(f.Name(), f.Category(), total, direction, strength, explanation, Metadata{
		LongShare:  longPct,
		ShortShare: shortPct,
		RatioVsAvg: liqRatio,
	})
}

// OIVolumeRatio gauges leverage intensity. Never directional - high
// leverage just means sharper moves either way.
type OIVolumeRatio struct{}

func NewOIVolumeRatio() *OIVolumeRatio { return &OIVolumeRatio{} }

func (f *OIVolumeRatio) Name() string                         { return "OIVolumeRatio" }
func (f *OIVolumeRatio) Category() Category                   { return CategoryCryptoDerivatives }
func (f *OIVolumeRatio) Applicable(mt market.MarketType) bool { return mt.IsDerivatives() }

func (f *OIVolumeRatio) Calculate(in Input) Result {
	d := in.Context.Derivs()
	if d == nil || d.OpenInterest.Len() == 0 {
		return Unavailable(f.Name(), f.Category(), "OI data not available")
	}

	volumes := in.Series.Volumes()
	if len(volumes) == 0 || volumes[len(volumes)-1] == 0 {
		return Unavailable(f.Name(), f.Category(), "no volume data")
	}
	currentVol := volumes[len(volumes)-1]
	ratio := d.OpenInterest.Last() / currentVol

	oiVals := d.OpenInterest.Values()
	var historical []float64
	start := 0
	if len(oiVals) > 30 {
		start = len(oiVals) - 30
	}
	for i := start; i < len(oiVals); i++ {
		vol := currentVol
		// Align OI history with the candle series from the end.
		offset := len(oiVals) - 1 - i
		if idx := len(volumes) - 1 - offset; idx >= 0 && volumes[idx] > 0 {
			vol = volumes[idx]
		}
		historical = append(historical, oiVals[i]/vol)
	}

	percentile := 0.5
	if len(historical) > 0 {
		percentile = indicators.PercentileRank(historical, ratio)
	}

	var (
		strength    float64
		explanation string
	)
	switch {
	case percentile > 0.8:
		strength = 0.7
		explanation = "High OI/Vol ratio - elevated leverage, expect volatility"
	case percentile < 0.2:
		strength = 0.3
		explanation = "Low OI/Vol ratio - low leverage, stable conditions"
	default:
		strength = 0.2
		explanation = "Normal OI/Vol ratio"
	}

	return New(f.Name(), f.Category(), ratio, Neutral, strength, explanation, Metadata{
		Percentile: percentile,
	})
}
