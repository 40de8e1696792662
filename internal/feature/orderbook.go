package feature

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/market"
)

// OrderBookImbalance compares resting bid and ask volume near the top of
// book. A lopsided book leans the short-term signal toward the heavy side.
type OrderBookImbalance struct {
	// Depth limits how many levels per side are summed. Zero means all.
	Depth int
}

func NewOrderBookImbalance() *OrderBookImbalance { return &OrderBookImbalance{Depth: 10} }

func (f *OrderBookImbalance) Name() string                        { return "OrderBookImbalance" }
func (f *OrderBookImbalance) Category() Category                  { return CategoryCryptoSpot }
func (f *OrderBookImbalance) Applicable(_ market.MarketType) bool { return true }

func (f *OrderBookImbalance) Calculate(in Input) Result {
	book := in.Context.Book()
	if book == nil || len(book.Bids) == 0 || len(book.Asks) == 0 {
		return Unavailable(f.Name(), f.Category(), "order book data not available")
	}

	bidVol := sideVolume(book.Bids, f.Depth)
	askVol := sideVolume(book.Asks, f.Depth)
	total := bidVol + askVol
	if total == 0 {
		return Unavailable(f.Name(), f.Category(), "empty order book")
	}

	// Imbalance in [-1, 1]: positive means bid-heavy.
	imbalance := (bidVol - askVol) / total

	var (
		direction   int
		strength    float64
		explanation string
	)
	switch {
	case imbalance > 0.2:
		direction = Bullish
		strength = math.Min(1, (imbalance-0.2)/0.6)
		explanation = fmt.Sprintf("Bid-heavy book (imbalance %+.2f) - buy pressure", imbalance)
	case imbalance < -0.2:
		direction = Bearish
		strength = math.Min(1, (math.Abs(imbalance)-0.2)/0.6)
		explanation = fmt.Sprintf("Ask-heavy book (imbalance %+.2f) - sell pressure", imbalance)
	default:
		direction = Neutral
		strength = 0.2
		explanation = fmt.Sprintf("Balanced book (imbalance %+.2f)", imbalance)
	}

	return New(f.Name(), f.Category(), imbalance, direction, strength, explanation, Metadata{})
}

func sideVolume(levels []market.BookLevel, depth int) float64 {
	if depth <= 0 || depth > len(levels) {
		depth = len(levels)
	}
	sum := 0.0
	for _, l := range levels[:depth] {
		sum += l.Volume
	}
	return sum
}
