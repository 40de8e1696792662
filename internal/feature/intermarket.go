package feature

import (
	"fmt"
	"math"
	"strings"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// GoldSilverRatio flags mean-reversion risk at the historical extremes of
// the ratio (roughly 60-80 in normal times).
type GoldSilverRatio struct{}

func NewGoldSilverRatio() *GoldSilverRatio { return &GoldSilverRatio{} }

func (f *GoldSilverRatio) Name() string                        { return "GoldSilverRatio" }
func (f *GoldSilverRatio) Category() Category                  { return CategoryIntermarket }
func (f *GoldSilverRatio) Applicable(_ market.MarketType) bool { return true }

func (f *GoldSilverRatio) Calculate(in Input) Result {
	silver, ok := in.Context.IntermarketSeries(market.IntermarketSilver, 1)
	if !ok || silver.Last() == 0 {
		return Unavailable(f.Name(), f.Category(), "Silver data not available")
	}

	ratio := in.Series.Last().Close / silver.Last()
	ratioSMA50 := ratio
	if silver.Len() >= 50 && in.Series.Len() >= 50 {
		closes := in.Series.Closes()
		silverVals := silver.Values()
		n := 50
		ratios := make([]float64, n)
		for i := 0; i < n; i++ {
			s := silverVals[len(silverVals)-n+i]
			if s != 0 {
				ratios[i] = closes[len(closes)-n+i] / s
			}
		}
		ratioSMA50 = indicators.Mean(ratios)
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case ratio > 85:
		direction = Bearish
		strength = math.Min(1, (ratio-85)/20)
		explanation = fmt.Sprintf("Gold/Silver ratio high at %.1f - potential reversion", ratio)
	case ratio < 60:
		direction = Bullish
		strength = math.Min(1, (60-ratio)/20)
		explanation = fmt.Sprintf("Gold/Silver ratio low at %.1f - gold may outperform", ratio)
	case ratio > ratioSMA50*1.05:
		direction = Bearish
		strength = 0.4
		explanation = fmt.Sprintf("Gold/Silver ratio above MA50 at %.1f", ratio)
	case ratio < ratioSMA50*0.95:
		direction = Bullish
		strength = 0.4
		explanation = fmt.Sprintf("Gold/Silver ratio below MA50 at %.1f", ratio)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("Gold/Silver ratio normal at %.1f", ratio)
	}

	return New(f.Name(), f.Category(), ratio, direction, strength, explanation, Metadata{})
}

// CopperGoldRatio proxies growth expectations: rising copper relative to
// gold is risk-on and weighs on gold.
type CopperGoldRatio struct{}

func NewCopperGoldRatio() *CopperGoldRatio { return &CopperGoldRatio{} }

func (f *CopperGoldRatio) Name() string                        { return "CopperGoldRatio" }
func (f *CopperGoldRatio) Category() Category                  { return CategoryIntermarket }
func (f *CopperGoldRatio) Applicable(_ market.MarketType) bool { return true }

func (f *CopperGoldRatio) Calculate(in Input) Result {
	copper, ok := in.Context.IntermarketSeries(market.IntermarketCopper, 1)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "Copper data not available")
	}

	goldPrice := in.Series.Last().Close
	if goldPrice == 0 {
		return Unavailable(f.Name(), f.Category(), "no price data")
	}

	ratio := copper.Last() / goldPrice
	closes := in.Series.Closes()
	lookback := 20
	if copper.Len() <= lookback || len(closes) <= lookback {
		lookback = minInt(copper.Len(), len(closes)) - 1
	}
	changePct := 0.0
	if lookback > 0 {
		pastGold := closes[len(closes)-1-lookback]
		if pastGold != 0 {
			pastRatio := copper.At(lookback) / pastGold
			changePct = pctChange(pastRatio, ratio)
		}
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case changePct > 2.0:
		direction = Bearish
		strength = math.Min(1, math.Abs(changePct)/5)
		explanation = fmt.Sprintf("Copper/Gold rising %.2f%% - risk-on, bearish for gold", changePct)
	case changePct < -2.0:
		direction = Bullish
		strength = math.Min(1, math.Abs(changePct)/5)
		explanation = fmt.Sprintf("Copper/Gold falling %.2f%% - risk-off, bullish for gold", changePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = "Copper/Gold ratio stable"
	}

	return New(f.Name(), f.Category(), ratio, direction, strength, explanation, Metadata{
		ChangePct: changePct,
	})
}

// GoldOilRatio reads flight-to-safety demand. Historical average sits
// around 15-25.
type GoldOilRatio struct{}

func NewGoldOilRatio() *GoldOilRatio { return &GoldOilRatio{} }

func (f *GoldOilRatio) Name() string                        { return "GoldOilRatio" }
func (f *GoldOilRatio) Category() Category                  { return CategoryIntermarket }
func (f *GoldOilRatio) Applicable(_ market.MarketType) bool { return true }

func (f *GoldOilRatio) Calculate(in Input) Result {
	oil, ok := in.Context.IntermarketSeries(market.IntermarketCrude, 5)
	if !ok || oil.Last() == 0 {
		return Unavailable(f.Name(), f.Category(), "Oil data not available")
	}

	goldPrice := in.Series.Last().Close
	ratio := goldPrice / oil.Last()

	closes := in.Series.Closes()
	lookback := minInt(20, oil.Len()-1)
	changePct := 0.0
	if lookback > 0 && len(closes) > lookback && oil.At(lookback) != 0 {
		pastRatio := closes[len(closes)-1-lookback] / oil.At(lookback)
		changePct = pctChange(pastRatio, ratio)
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case ratio > 30:
		direction = Bullish
		strength = math.Min(1, (ratio-30)/10)
		explanation = fmt.Sprintf("Gold/Oil ratio high at %.1f - strong safe haven demand", ratio)
	case ratio < 15:
		direction = Bearish
		strength = math.Min(1, (15-ratio)/5)
		explanation = fmt.Sprintf("Gold/Oil ratio low at %.1f - weak gold demand", ratio)
	case changePct > 5:
		direction = Bullish
		strength = math.Min(1, changePct/10)
		explanation = fmt.Sprintf("Gold/Oil ratio rising (%.1f, +%.1f%%) - risk-off", ratio, changePct)
	case changePct < -5:
		direction = Bearish
		strength = math.Min(1, math.Abs(changePct)/10)
		explanation = fmt.Sprintf("Gold/Oil ratio falling (%.1f, %.1f%%) - risk-on", ratio, changePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("Gold/Oil ratio normal at %.1f", ratio)
	}

	return New(f.Name(), f.Category(), ratio, direction, strength, explanation, Metadata{
		ChangePct: changePct,
	})
}

// MinersGoldRatio: GDX relative to GLD. Miners typically lead the metal.
type MinersGoldRatio struct{}

func NewMinersGoldRatio() *MinersGoldRatio { return &MinersGoldRatio{} }

func (f *MinersGoldRatio) Name() string                        { return "MinersGoldRatio" }
func (f *MinersGoldRatio) Category() Category                  { return CategoryIntermarket }
func (f *MinersGoldRatio) Applicable(_ market.MarketType) bool { return true }

func (f *MinersGoldRatio) Calculate(in Input) Result {
	gdx, ok := in.Context.IntermarketSeries(market.IntermarketGDX, 1)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "Miners data not available")
	}

	var gldPrice float64
	if gld, okGLD := in.Context.IntermarketSeries(market.IntermarketGLD, 1); okGLD {
		gldPrice = gld.Last()
	} else {
		// GLD tracks roughly a tenth of spot gold.
		gldPrice = in.Series.Last().Close / 10
	}
	if gldPrice == 0 {
		return Unavailable(f.Name(), f.Category(), "no GLD reference price")
	}

	ratio := gdx.Last() / gldPrice
	ratioSMA20 := ratio
	if gdx.Len() >= 20 {
		vals := gdx.Values()
		ratioSMA20 = indicators.Mean(vals[len(vals)-20:]) / gldPrice
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case ratioSMA20 > 0 && ratio > ratioSMA20*1.05:
		direction = Bullish
		strength = math.Min(1, (ratio/ratioSMA20-1)/0.1)
		explanation = "Miners outperforming gold - bullish signal"
	case ratioSMA20 > 0 && ratio < ratioSMA20*0.95:
		direction = Bearish
		strength = math.Min(1, (1-ratio/ratioSMA20)/0.1)
		explanation = "Miners underperforming gold - bearish signal"
	default:
		direction = Neutral
		strength = 0.2
		explanation = "Miners in line with gold"
	}

	return New(f.Name(), f.Category(), ratio, direction, strength, explanation, Metadata{})
}

// GLDFlow tracks GLD trust holdings as an institutional flow proxy.
type GLDFlow struct{}

func NewGLDFlow() *GLDFlow { return &GLDFlow{} }

func (f *GLDFlow) Name() string                        { return "GLDFlow" }
func (f *GLDFlow) Category() Category                  { return CategoryIntermarket }
func (f *GLDFlow) Applicable(_ market.MarketType) bool { return true }

func (f *GLDFlow) Calculate(in Input) Result {
	holdings, ok := in.Context.IntermarketSeries(market.IntermarketGLDHoldings, 5)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "GLD holdings data not available")
	}

	current := holdings.Last()
	changePct := pctChange(holdings.At(5), current)

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case changePct > 0.5:
		direction = Bullish
		strength = math.Min(1, math.Abs(changePct)/2)
		explanation = fmt.Sprintf("GLD holdings rising %.2f%% - institutional buying", changePct)
	case changePct < -0.5:
		direction = Bearish
		strength = math.Min(1, math.Abs(changePct)/2)
		explanation = fmt.Sprintf("GLD holdings falling %.2f%% - institutional selling", changePct)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("GLD holdings stable (%+.2f%%)", changePct)
	}

	return New(f.Name(), f.Category(), current, direction, strength, explanation, Metadata{
		ChangePct: changePct,
	})
}

// BTCDominance: rising dominance is bullish for BTC itself and bearish for
// everything else in the crypto basket.
type BTCDominance struct{}

func NewBTCDominance() *BTCDominance { return &BTCDominance{} }

func (f *BTCDominance) Name() string                        { return "BTCDominance" }
func (f *BTCDominance) Category() Category                  { return CategoryIntermarket }
func (f *BTCDominance) Applicable(_ market.MarketType) bool { return true }

func (f *BTCDominance) Calculate(in Input) Result {
	dominance, ok := in.Context.IntermarketSeries(market.IntermarketBTCDominance, 5)
	if !ok {
		return Unavailable(f.Name(), f.Category(), "BTC dominance data not available")
	}

	current := dominance.Last()
	change := current - dominance.At(5)
	isBTC := strings.Contains(strings.ToUpper(in.Symbol), "BTC")

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case change > 1.0:
		direction = Bullish
		if !isBTC {
			direction = Bearish
		}
		strength = math.Min(1, math.Abs(change)/3)
		explanation = fmt.Sprintf("BTC dominance rising to %.1f%%", current)
	case change < -1.0:
		direction = Bearish
		if !isBTC {
			direction = Bullish
		}
		strength = math.Min(1, math.Abs(change)/3)
		explanation = fmt.Sprintf("BTC dominance falling to %.1f%%", current)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("BTC dominance stable at %.1f%%", current)
	}

	return New(f.Name(), f.Category(), current, direction, strength, explanation, Metadata{})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
