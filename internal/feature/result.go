// Package feature defines the feature-calculation contract: every market
// signal is an independent calculator that turns a price series plus context
// into a normalized Result (direction, strength, explanation).
package feature

import "fmt"

// Category groups features for weighting, consensus voting, and conflict
// detection.
type Category string

const (
	CategoryTechnical         Category = "TECHNICAL"
	CategoryVolatility        Category = "VOLATILITY"
	CategoryVolume            Category = "VOLUME"
	CategoryMacro             Category = "MACRO"
	CategoryIntermarket       Category = "INTERMARKET"
	CategorySentiment         Category = "SENTIMENT"
	CategoryCryptoSpot        Category = "CRYPTO_SPOT"
	CategoryCryptoDerivatives Category = "CRYPTO_DERIVATIVES"
)

// Feature directions.
const (
	Bearish = -1
	Neutral = 0
	Bullish = 1
)

// Metadata carries indicator-specific extras on a Result. All fields are
// optional; zero values mean "not set". Keeping this a fixed struct rather
// than an open map keeps the contract testable.
type Metadata struct {
	Period     int     `json:"period,omitempty"`
	Percentile float64 `json:"percentile,omitempty"`
	ChangePct  float64 `json:"change_pct,omitempty"`

	// Oscillator extras.
	StochK float64 `json:"stoch_k,omitempty"`
	StochD float64 `json:"stoch_d,omitempty"`

	// Band extras.
	BandUpper  float64 `json:"band_upper,omitempty"`
	BandMiddle float64 `json:"band_middle,omitempty"`
	BandLower  float64 `json:"band_lower,omitempty"`
	AvgWidth   float64 `json:"avg_width,omitempty"`
	Squeeze    bool    `json:"squeeze,omitempty"`

	// Trend extras.
	PlusDI      float64 `json:"plus_di,omitempty"`
	MinusDI     float64 `json:"minus_di,omitempty"`
	EMAFast     float64 `json:"ema_fast,omitempty"`
	EMASlow     float64 `json:"ema_slow,omitempty"`
	Slope       float64 `json:"slope,omitempty"`
	GoldenCross bool    `json:"golden_cross,omitempty"`
	DeathCross  bool    `json:"death_cross,omitempty"`

	// Volatility extras.
	ATRPct float64 `json:"atr_pct,omitempty"`

	// Derivatives extras.
	AnnualizedPct float64 `json:"annualized_pct,omitempty"`
	PriceChange   float64 `json:"price_change_pct,omitempty"`
	LongShare     float64 `json:"long_share,omitempty"`
	ShortShare    float64 `json:"short_share,omitempty"`
	RatioVsAvg    float64 `json:"ratio_vs_avg,omitempty"`

	// Sentiment extras.
	FearIndex    float64 `json:"fear_index,omitempty"`
	ArticleCount int     `json:"article_count,omitempty"`
	Urgency      float64 `json:"urgency,omitempty"`
}

// Result is the immutable output of one calculator call.
type Result struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	RawValue    float64  `json:"raw_value"`
	Direction   int      `json:"direction"`
	Strength    float64  `json:"strength"`
	Explanation string   `json:"explanation"`
	Metadata    Metadata `json:"metadata"`
}

// New constructs a validated Result. Direction outside {-1,0,1} or strength
// outside [0,1] indicates a calculator bug, so construction panics rather
// than silently correcting the value.
func New(name string, category Category, rawValue float64, direction int, strength float64, explanation string, meta Metadata) Result {
	if direction < Bearish || direction > Bullish {
		panic(fmt.Sprintf("feature %s: direction %d outside {-1,0,1}", name, direction))
	}
	if strength < 0 || strength > 1 {
		panic(fmt.Sprintf("feature %s: strength %g outside [0,1]", name, strength))
	}
	return Result{
		Name:        name,
		Category:    category,
		RawValue:    rawValue,
		Direction:   direction,
		Strength:    strength,
		Explanation: explanation,
		Metadata:    meta,
	}
}

// Unavailable returns the neutral result used when a calculator lacks the
// context or history it needs.
func Unavailable(name string, category Category, explanation string) Result {
	return Result{
		Name:        name,
		Category:    category,
		Explanation: explanation,
	}
}
