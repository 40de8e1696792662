package feature

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// VWAPFeature leans mean-reversion: stretched distance from VWAP fades back.
type VWAPFeature struct{}

func NewVWAP() *VWAPFeature { return &VWAPFeature{} }

func (f *VWAPFeature) Name() string                        { return "VWAP" }
func (f *VWAPFeature) Category() Category                  { return CategoryVolume }
func (f *VWAPFeature) Applicable(_ market.MarketType) bool { return true }

func (f *VWAPFeature) Calculate(in Input) Result {
	vwap, ok := indicators.VWAP(in.Series)
	if !ok || vwap == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient data for VWAP")
	}

	price := in.Series.Last().Close
	distancePct := (price - vwap) / vwap * 100

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case distancePct > 1.0:
		direction = Bearish
		strength = math.Min(1, math.Abs(distancePct)/3)
		explanation = fmt.Sprintf("Price %.2f%% above VWAP - overbought", distancePct)
	case distancePct < -1.0:
		direction = Bullish
		strength = math.Min(1, math.Abs(distancePct)/3)
		explanation = fmt.Sprintf("Price %.2f%% below VWAP - oversold", distancePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("Price near VWAP (%+.2f%%)", distancePct)
	}

	return New(f.Name(), f.Category(), vwap, direction, strength, explanation, Metadata{
		ChangePct: distancePct,
	})
}

// VolumeRatio compares the latest bar's volume to its 20-bar average.
// A spike only counts as directional when price actually moved with it.
type VolumeRatio struct {
	Period int
}

func NewVolumeRatio() *VolumeRatio { return &VolumeRatio{Period: 20} }

func (f *VolumeRatio) Name() string                        { return "VolumeRatio" }
func (f *VolumeRatio) Category() Category                  { return CategoryVolume }
func (f *VolumeRatio) Applicable(_ market.MarketType) bool { return true }

func (f *VolumeRatio) Calculate(in Input) Result {
	volumes := in.Series.Volumes()
	closes := in.Series.Closes()
	if len(volumes) < f.Period+1 || len(closes) < 2 {
		return Unavailable(f.Name(), f.Category(), "insufficient history for volume ratio")
	}

	avgVol := indicators.Mean(volumes[len(volumes)-f.Period:])
	currentVol := volumes[len(volumes)-1]
	ratio := 1.0
	if avgVol > 0 {
		ratio = currentVol / avgVol
	}

	prevClose := closes[len(closes)-2]
	priceChangePct := 0.0
	if prevClose != 0 {
		priceChangePct = (closes[len(closes)-1] - prevClose) / prevClose * 100
	}

	direction, strength := volumeSignal(ratio, priceChangePct)

	var explanation string
	switch {
	case ratio > 2.0:
		explanation = fmt.Sprintf("Volume spike %.2fx average", ratio)
	case ratio < 0.5:
		explanation = fmt.Sprintf("Low volume %.2fx average - low conviction", ratio)
	default:
		explanation = fmt.Sprintf("Normal volume %.2fx average", ratio)
	}

	return New(f.Name(), f.Category(), ratio, direction, strength, explanation, Metadata{
		RatioVsAvg:  ratio,
		PriceChange: priceChangePct,
	})
}

// OBVTrend confirms or diverges from price using on-balance volume slope
// over the last 20 bars.
type OBVTrend struct {
	Lookback int
}

func NewOBVTrend() *OBVTrend { return &OBVTrend{Lookback: 20} }

func (f *OBVTrend) Name() string                        { return "OBV" }
func (f *OBVTrend) Category() Category                  { return CategoryVolume }
func (f *OBVTrend) Applicable(_ market.MarketType) bool { return true }

func (f *OBVTrend) Calculate(in Input) Result {
	closes := in.Series.Closes()
	cur, past, ok := indicators.OBV(closes, in.Series.Volumes(), f.Lookback)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for OBV")
	}

	obvRising := cur > past
	pastClose := closes[len(closes)-1-f.Lookback]
	priceRising := closes[len(closes)-1] > pastClose

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case obvRising && priceRising:
		direction = Bullish
		strength = 0.5
		explanation = "OBV rising with price - uptrend confirmed"
	case !obvRising && !priceRising:
		direction = Bearish
		strength = 0.5
		explanation = "OBV falling with price - downtrend confirmed"
	case obvRising && !priceRising:
		direction = Bullish
		strength = 0.6
		explanation = "Bullish divergence - OBV rising against falling price"
	default:
		direction = Bearish
		strength = 0.6
		explanation = "Bearish divergence - OBV falling against rising price"
	}

	return New(f.Name(), f.Category(), cur, direction, strength, explanation, Metadata{})
}
