package feature

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// RSI measures overbought/oversold pressure on a 14-period Wilder RSI.
type RSI struct {
	Period int
}

func NewRSI() *RSI { return &RSI{Period: 14} }

func (f *RSI) Name() string                        { return "RSI" }
func (f *RSI) Category() Category                  { return CategoryTechnical }
func (f *RSI) Applicable(_ market.MarketType) bool { return true }

func (f *RSI) Calculate(in Input) Result {
	rsi, ok := indicators.RSI(in.Series.Closes(), f.Period)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for RSI")
	}

	direction, strength := rsiSignal(rsi)

	var explanation string
	switch {
	case rsi >= 70:
		explanation = fmt.Sprintf("RSI at %.2f - overbought, bearish signal", rsi)
	case rsi <= 30:
		explanation = fmt.Sprintf("RSI at %.2f - oversold, bullish signal", rsi)
	default:
		explanation = fmt.Sprintf("RSI at %.2f - neutral zone", rsi)
	}

	return New(f.Name(), f.Category(), rsi, direction, strength, explanation, Metadata{Period: f.Period})
}

// MACDFeature signals on histogram side and fresh signal-line crosses.
type MACDFeature struct {
	Fast, Slow, Signal int
}

func NewMACD() *MACDFeature { return &MACDFeature{Fast: 12, Slow: 26, Signal: 9} }

func (f *MACDFeature) Name() string                        { return "MACD" }
func (f *MACDFeature) Category() Category                  { return CategoryTechnical }
func (f *MACDFeature) Applicable(_ market.MarketType) bool { return true }

func (f *MACDFeature) Calculate(in Input) Result {
	macdLine, signalLine, hist, prevHist, ok := indicators.MACD(in.Series.Closes(), f.Fast, f.Slow, f.Signal)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for MACD")
	}

	direction, strength := macdSignal(macdLine, signalLine, hist, prevHist)

	var explanation string
	switch {
	case prevHist <= 0 && hist > 0:
		explanation = "MACD crossed above signal - bullish"
	case prevHist >= 0 && hist < 0:
		explanation = "MACD crossed below signal - bearish"
	default:
		explanation = fmt.Sprintf("MACD histogram: %.4f", hist)
	}

	return New(f.Name(), f.Category(), hist, direction, strength, explanation, Metadata{})
}

// Stochastic oscillator: %K extremes mirror the RSI rules, otherwise the
// %K/%D relationship gives a mild lean.
type Stochastic struct {
	KPeriod, DPeriod int
}

func NewStochastic() *Stochastic { return &Stochastic{KPeriod: 14, DPeriod: 3} }

func (f *Stochastic) Name() string                        { return "Stochastic" }
func (f *Stochastic) Category() Category                  { return CategoryTechnical }
func (f *Stochastic) Applicable(_ market.MarketType) bool { return true }

func (f *Stochastic) Calculate(in Input) Result {
	k, d, ok := indicators.Stochastic(in.Series, f.KPeriod, f.DPeriod)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for Stochastic")
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case k >= 80:
		direction = Bearish
		strength = math.Min(1, (k-80)/20)
		explanation = fmt.Sprintf("Stochastic %%K at %.2f - overbought", k)
	case k <= 20:
		direction = Bullish
		strength = math.Min(1, (20-k)/20)
		explanation = fmt.Sprintf("Stochastic %%K at %.2f - oversold", k)
	case k > d:
		direction = Bullish
		strength = 0.3
		explanation = "Stochastic %K above %D - mildly bullish"
	default:
		direction = Bearish
		strength = 0.3
		explanation = "Stochastic %K below %D - mildly bearish"
	}

	return New(f.Name(), f.Category(), k, direction, strength, explanation, Metadata{StochK: k, StochD: d})
}

// BollingerBands signals on %B position within 20-period, 2-sigma bands.
type BollingerBands struct {
	Period int
	StdDev float64
}

func NewBollingerBands() *BollingerBands { return &BollingerBands{Period: 20, StdDev: 2} }

func (f *BollingerBands) Name() string                        { return "BollingerBands" }
func (f *BollingerBands) Category() Category                  { return CategoryTechnical }
func (f *BollingerBands) Applicable(_ market.MarketType) bool { return true }

func (f *BollingerBands) Calculate(in Input) Result {
	upper, middle, lower, ok := indicators.BollingerBands(in.Series.Closes(), f.Period, f.StdDev)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for Bollinger Bands")
	}

	price := in.Series.Last().Close
	bandRange := upper - lower
	pctB := 0.5
	if bandRange > 0 {
		pctB = (price - lower) / bandRange
	}

	direction, strength := bollingerSignal(pctB)

	var explanation string
	switch {
	case pctB > 1.0:
		explanation = fmt.Sprintf("Price above upper BB (%%B=%.2f) - bearish", pctB)
	case pctB < 0.0:
		explanation = fmt.Sprintf("Price below lower BB (%%B=%.2f) - bullish", pctB)
	default:
		explanation = fmt.Sprintf("Price within bands (%%B=%.2f)", pctB)
	}

	return New(f.Name(), f.Category(), pctB, direction, strength, explanation, Metadata{
		BandUpper:  upper,
		BandMiddle: middle,
		BandLower:  lower,
	})
}

// EMAPair tracks the 20/50 EMA relationship and price position.
type EMAPair struct {
	Fast, Slow int
}

func NewEMAPair() *EMAPair { return &EMAPair{Fast: 20, Slow: 50} }

func (f *EMAPair) Name() string                        { return fmt.Sprintf("EMA_%d_%d", f.Fast, f.Slow) }
func (f *EMAPair) Category() Category                  { return CategoryTechnical }
func (f *EMAPair) Applicable(_ market.MarketType) bool { return true }

func (f *EMAPair) Calculate(in Input) Result {
	closes := in.Series.Closes()
	fast, prevFast, okFast := indicators.EMA(closes, f.Fast)
	slow, prevSlow, okSlow := indicators.EMA(closes, f.Slow)
	if !okFast || !okSlow {
		return Unavailable(f.Name(), f.Category(), "insufficient history for EMA pair")
	}

	price := in.Series.Last().Close
	direction, strength := maCrossSignal(fast, slow, price, prevFast, prevSlow)

	var slope float64
	if emas, ok := indicators.EMASeries(closes, f.Fast); ok && len(emas) >= 5 && emas[len(emas)-5] != 0 {
		slope = (fast - emas[len(emas)-5]) / emas[len(emas)-5] * 100
	}

	var explanation string
	switch direction {
	case Bullish:
		explanation = fmt.Sprintf("EMA%d above EMA%d, price above both - bullish", f.Fast, f.Slow)
	case Bearish:
		explanation = fmt.Sprintf("EMA%d below EMA%d, price below both - bearish", f.Fast, f.Slow)
	default:
		explanation = "Mixed EMA signals"
	}

	return New(f.Name(), f.Category(), fast-slow, direction, strength, explanation, Metadata{
		EMAFast: fast,
		EMASlow: slow,
		Slope:   slope,
	})
}

// SMADistance signals on how far price sits from a 20-period SMA.
type SMADistance struct {
	Period int
}

func NewSMADistance() *SMADistance { return &SMADistance{Period: 20} }

func (f *SMADistance) Name() string                        { return fmt.Sprintf("SMA%d", f.Period) }
func (f *SMADistance) Category() Category                  { return CategoryTechnical }
func (f *SMADistance) Applicable(_ market.MarketType) bool { return true }

func (f *SMADistance) Calculate(in Input) Result {
	sma, ok := indicators.SMALast(in.Series.Closes(), f.Period)
	if !ok || sma == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient history for SMA")
	}

	price := in.Series.Last().Close
	distancePct := (price - sma) / sma * 100

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case distancePct > 2:
		direction = Bullish
		strength = math.Min(1, math.Abs(distancePct)/5)
		explanation = fmt.Sprintf("Price %.2f%% above SMA(%d) - bullish", distancePct, f.Period)
	case distancePct < -2:
		direction = Bearish
		strength = math.Min(1, math.Abs(distancePct)/5)
		explanation = fmt.Sprintf("Price %.2f%% below SMA(%d) - bearish", distancePct, f.Period)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("Price near SMA(%d)", f.Period)
	}

	return New(f.Name(), f.Category(), sma, direction, strength, explanation, Metadata{
		Period:    f.Period,
		ChangePct: distancePct,
	})
}

// MACross watches the 50/200 golden/death cross. Needs the longest lookback
// of any feature; short series degrade to an insufficient-data result.
type MACross struct {
	FastPeriod, SlowPeriod int
}

func NewMACross() *MACross { return &MACross{FastPeriod: 50, SlowPeriod: 200} }

func (f *MACross) Name() string {
	return fmt.Sprintf("MACross%d_%d", f.FastPeriod, f.SlowPeriod)
}
func (f *MACross) Category() Category                  { return CategoryTechnical }
func (f *MACross) Applicable(_ market.MarketType) bool { return true }

func (f *MACross) Calculate(in Input) Result {
	closes := in.Series.Closes()
	if len(closes) < f.SlowPeriod+1 {
		return Unavailable(f.Name(), f.Category(), "insufficient data for MA crossover")
	}

	fast, prevFast, _ := indicators.SMA(closes, f.FastPeriod)
	slow, prevSlow, _ := indicators.SMA(closes, f.SlowPeriod)
	if slow == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient data for MA crossover")
	}

	distancePct := (fast - slow) / slow * 100
	goldenCross := prevFast <= prevSlow && fast > slow
	deathCross := prevFast >= prevSlow && fast < slow

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case goldenCross:
		direction = Bullish
		strength = 1.0
		explanation = fmt.Sprintf("Golden Cross! MA%d crossed above MA%d - strong bullish", f.FastPeriod, f.SlowPeriod)
	case deathCross:
		direction = Bearish
		strength = 1.0
		explanation = fmt.Sprintf("Death Cross! MA%d crossed below MA%d - strong bearish", f.FastPeriod, f.SlowPeriod)
	case fast > slow:
		direction = Bullish
		strength = math.Min(1, math.Abs(distancePct)/5)
		explanation = fmt.Sprintf("MA%d above MA%d (%+.2f%%) - bullish", f.FastPeriod, f.SlowPeriod, distancePct)
	case fast < slow:
		direction = Bearish
		strength = math.Min(1, math.Abs(distancePct)/5)
		explanation = fmt.Sprintf("MA%d below MA%d (%+.2f%%) - bearish", f.FastPeriod, f.SlowPeriod, distancePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = "MAs aligned"
	}

	return New(f.Name(), f.Category(), distancePct, direction, strength, explanation, Metadata{
		GoldenCross: goldenCross,
		DeathCross:  deathCross,
	})
}

// PriceMomentum averages rate-of-change over several lookbacks.
type PriceMomentum struct {
	Periods []int
}

func NewPriceMomentum() *PriceMomentum { return &PriceMomentum{Periods: []int{5, 10, 20}} }

func (f *PriceMomentum) Name() string                        { return "PriceMomentum" }
func (f *PriceMomentum) Category() Category                  { return CategoryTechnical }
func (f *PriceMomentum) Applicable(_ market.MarketType) bool { return true }

func (f *PriceMomentum) Calculate(in Input) Result {
	closes := in.Series.Closes()
	current := closes[len(closes)-1]

	var scores []float64
	for _, period := range f.Periods {
		if len(closes) > period {
			past := closes[len(closes)-1-period]
			if past != 0 {
				scores = append(scores, (current-past)/past*100)
			}
		}
	}
	if len(scores) == 0 {
		return Unavailable(f.Name(), f.Category(), "insufficient history for momentum")
	}

	avg := indicators.Mean(scores)

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case avg > 2:
		direction = Bullish
		strength = math.Min(1, math.Abs(avg)/10)
		explanation = fmt.Sprintf("Strong upward momentum (+%.2f%%)", avg)
	case avg < -2:
		direction = Bearish
		strength = math.Min(1, math.Abs(avg)/10)
		explanation = fmt.Sprintf("Strong downward momentum (%.2f%%)", avg)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("Weak momentum (%+.2f%%)", avg)
	}

	return New(f.Name(), f.Category(), avg, direction, strength, explanation, Metadata{})
}

// ADXTrend classifies trend strength and direction from ADX and the DIs.
type ADXTrend struct {
	Period int
}

func NewADXTrend() *ADXTrend { return &ADXTrend{Period: 14} }

func (f *ADXTrend) Name() string                        { return "ADX" }
func (f *ADXTrend) Category() Category                  { return CategoryTechnical }
func (f *ADXTrend) Applicable(_ market.MarketType) bool { return true }

func (f *ADXTrend) Calculate(in Input) Result {
	adx, plusDI, minusDI, ok := indicators.ADX(in.Series, f.Period)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for ADX")
	}

	direction, strength := adxSignal(adx, plusDI, minusDI)

	trendDir := "down"
	if plusDI > minusDI {
		trendDir = "up"
	}
	var explanation string
	switch {
	case adx < 18:
		explanation = fmt.Sprintf("ADX at %.2f - no clear trend", adx)
	case adx >= 40:
		explanation = fmt.Sprintf("ADX at %.2f - strong %strend", adx, trendDir)
	default:
		explanation = fmt.Sprintf("ADX at %.2f - developing %strend", adx, trendDir)
	}

	return New(f.Name(), f.Category(), adx, direction, strength, explanation, Metadata{
		PlusDI:  plusDI,
		MinusDI: minusDI,
	})
}

// SupertrendFeature signals on which side of the Supertrend line price sits.
type SupertrendFeature struct {
	Period     int
	Multiplier float64
}

func NewSupertrend() *SupertrendFeature { return &SupertrendFeature{Period: 10, Multiplier: 3} }

func (f *SupertrendFeature) Name() string                        { return "Supertrend" }
func (f *SupertrendFeature) Category() Category                  { return CategoryTechnical }
func (f *SupertrendFeature) Applicable(_ market.MarketType) bool { return true }

func (f *SupertrendFeature) Calculate(in Input) Result {
	level, direction, ok := indicators.Supertrend(in.Series, f.Period, f.Multiplier)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "insufficient history for Supertrend")
	}

	price := in.Series.Last().Close
	strength := 0.0
	if price != 0 {
		strength = math.Min(1, math.Abs(price-level)/price*100/5)
	}

	var explanation string
	switch direction {
	case Bullish:
		explanation = fmt.Sprintf("Supertrend bullish - price above %.2f", level)
	case Bearish:
		explanation = fmt.Sprintf("Supertrend bearish - price below %.2f", level)
	default:
		explanation = "Supertrend neutral"
		strength = 0
	}

	return New(f.Name(), f.Category(), level, direction, strength, explanation, Metadata{Period: f.Period})
}
