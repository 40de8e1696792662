package market

import "fmt"

// MarketType distinguishes spot from derivatives markets. Derivatives-only
// features (funding, open interest, basis) are skipped for spot symbols.
type MarketType string

const (
	Spot      MarketType = "SPOT"
	Perpetual MarketType = "PERPETUAL"
	Futures   MarketType = "FUTURES"
)

// IsDerivatives reports whether the market carries derivatives context.
func (m MarketType) IsDerivatives() bool {
	return m == Perpetual || m == Futures
}

// Timeframe is a bar interval identifier.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
	TF1w  Timeframe = "1w"
	TF1M  Timeframe = "1M"
)

// Minutes returns the bar duration in minutes.
func (tf Timeframe) Minutes() int {
	switch tf {
	case TF15m:
		return 15
	case TF1h:
		return 60
	case TF4h:
		return 240
	case TF1d:
		return 1440
	case TF1w:
		return 10080
	case TF1M:
		return 43200
	default:
		return 60
	}
}

// Horizon buckets timeframes for weight-preset selection.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// HorizonOf maps a timeframe to its weight horizon: intraday frames are
// short, daily is medium, weekly and above are long.
func HorizonOf(tf Timeframe) Horizon {
	switch tf {
	case TF15m, TF1h, TF4h:
		return HorizonShort
	case TF1d:
		return HorizonMedium
	default:
		return HorizonLong
	}
}

// ParseTimeframe validates and normalizes a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TF15m, TF1h, TF4h, TF1d, TF1w, TF1M:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}
