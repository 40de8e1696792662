package scoring

import "github.com/marketoracle/oracle/internal/market"

// DefaultWeight applies to any feature a preset does not name.
const DefaultWeight = 1.0

// WeightTable maps feature names to their scoring weight for one horizon.
type WeightTable map[string]float64

// Weight returns the table's weight for a feature, falling back to
// DefaultWeight for unnamed features.
func (t WeightTable) Weight(featureName string) float64 {
	if w, ok := t[featureName]; ok {
		return w
	}
	return DefaultWeight
}

// shortTermWeights emphasize oscillators, volume, and derivatives crowding.
var shortTermWeights = WeightTable{
	"RSI":            1.2,
	"Stochastic":     1.1,
	"MACD":           1.0,
	"BollingerBands": 1.1,
	"VWAP":           1.3,
	"VolumeRatio":    1.2,
	"FundingRate":    1.3,
	"Liquidations":   1.4,
	"ADX":            0.8,
	"EMA_20_50":      0.9,
	"Supertrend":     0.9,
	"DXY":            0.5,
	"VIX":            0.6,
	"RealYields":     0.3,
}

// mediumTermWeights are near-balanced with a tilt toward trend structure.
var mediumTermWeights = WeightTable{
	"RSI":             1.0,
	"MACD":            1.0,
	"ADX":             1.2,
	"EMA_20_50":       1.3,
	"Supertrend":      1.2,
	"BBWidth":         1.1,
	"DXY":             1.0,
	"VIX":             0.9,
	"RealYields":      1.1,
	"FundingRate":     1.0,
	"OpenInterest":    1.1,
	"GoldSilverRatio": 1.0,
}

// longTermWeights emphasize macro drivers and market structure.
var longTermWeights = WeightTable{
	"ADX":             1.3,
	"EMA_20_50":       1.5,
	"Supertrend":      1.3,
	"DXY":             1.4,
	"RealYields":      1.5,
	"VIX":             1.0,
	"GoldSilverRatio": 1.2,
	"MinersGoldRatio": 1.2,
	"GLDFlow":         1.1,
	"RSI":             0.7,
	"Stochastic":      0.5,
	"VWAP":            0.3,
	"FundingRate":     0.6,
}

// WeightsFor returns the default weight table for a timeframe's horizon.
// The returned table is shared; callers must not mutate it.
func WeightsFor(tf market.Timeframe) WeightTable {
	switch market.HorizonOf(tf) {
	case market.HorizonShort:
		return shortTermWeights
	case market.HorizonMedium:
		return mediumTermWeights
	default:
		return longTermWeights
	}
}
