package feature

import (
	"fmt"
	"math"
	"strings"

	"github.com/marketoracle/oracle/internal/market"
)

// NewsSentiment maps the news fear index onto a safe-haven bias: fear is
// bullish for gold, complacency bearish. Urgent news flow amplifies the
// short-term reading.
type NewsSentiment struct{}

func NewNewsSentiment() *NewsSentiment { return &NewsSentiment{} }

func (f *NewsSentiment) Name() string                        { return "NewsSentiment" }
func (f *NewsSentiment) Category() Category                  { return CategorySentiment }
func (f *NewsSentiment) Applicable(_ market.MarketType) bool { return true }

func (f *NewsSentiment) Calculate(in Input) Result {
	sent := in.Context.Sent()
	if sent == nil {
		return Unavailable(f.Name(), f.Category(), "news sentiment data not available")
	}

	fearIndex := sent.FearIndex

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case fearIndex > 0.1:
		direction = Bullish
		strength = math.Min(1, math.Abs(fearIndex)*2)
		explanation = fmt.Sprintf("High market fear (%.3f) - bullish for gold", fearIndex)
	case fearIndex < -0.1:
		direction = Bearish
		strength = math.Min(1, math.Abs(fearIndex)*2)
		explanation = fmt.Sprintf("Market complacency (%.3f) - bearish for gold", fearIndex)
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("Neutral sentiment (%.3f)", fearIndex)
	}

	if sent.Urgency > 0.5 {
		strength = math.Min(1, strength*1.3)
	}

	return New(f.Name(), f.Category(), fearIndex, direction, strength, explanation, Metadata{
		FearIndex:    fearIndex,
		ArticleCount: sent.ArticleCount,
		Urgency:      sent.Urgency,
	})
}

// MarketFearGauge blends VIX (60%) and news fear (40%) into one reading.
type MarketFearGauge struct{}

func NewMarketFearGauge() *MarketFearGauge { return &MarketFearGauge{} }

func (f *MarketFearGauge) Name() string                        { return "MarketFearGauge" }
func (f *MarketFearGauge) Category() Category                  { return CategorySentiment }
func (f *MarketFearGauge) Applicable(_ market.MarketType) bool { return true }

func (f *MarketFearGauge) Calculate(in Input) Result {
	if in.Context == nil {
		return Unavailable(f.Name(), f.Category(), "context data not available")
	}

	fearScore := 0.0
	var components []string

	if vix, ok := in.Context.MacroSeries(market.MacroVIX, 1); ok {
		current := vix.Last()
		// Normalize around the 15-35 band.
		fearScore += (current - 15) / 20 * 0.6
		components = append(components, fmt.Sprintf("VIX: %.1f", current))
	}
	if sent := in.Context.Sent(); sent != nil {
		fearScore += sent.FearIndex * 0.4
		components = append(components, fmt.Sprintf("News: %.3f", sent.FearIndex))
	}
	if len(components) == 0 {
		return Unavailable(f.Name(), f.Category(), "no fear gauge inputs available")
	}

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case fearScore > 0.3:
		direction = Bullish
		strength = math.Min(1, math.Abs(fearScore))
		explanation = fmt.Sprintf("Elevated fear (%.3f) - bullish for gold. %s", fearScore, strings.Join(components, ", "))
	case fearScore < -0.3:
		direction = Bearish
		strength = math.Min(1, math.Abs(fearScore))
		explanation = fmt.Sprintf("Low fear (%.3f) - bearish for gold. %s", fearScore, strings.Join(components, ", "))
	default:
		direction = Neutral
		strength = 0.3
		explanation = fmt.Sprintf("Normal fear levels (%.3f). %s", fearScore, strings.Join(components, ", "))
	}

	return New(f.Name(), f.Category(), fearScore, direction, strength, explanation, Metadata{})
}
