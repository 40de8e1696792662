package market

import "time"

// Context bundles the auxiliary series an evaluation may use beyond the
// price series itself. Every sub-bundle is optional: features that depend on
// an absent bundle degrade to a neutral, explained result.
type Context struct {
	// Macro holds named macro indicator series (DXY, VIX, TNX, TIP, ...).
	Macro map[string]ValueSeries `json:"macro,omitempty"`

	// Intermarket holds named related-asset series (XAGUSD, COPPER, CRUDE,
	// GDX, GLD, GLD_HOLDINGS, BTC_DOMINANCE, ...).
	Intermarket map[string]ValueSeries `json:"intermarket,omitempty"`

	Derivatives *DerivativesContext `json:"derivatives,omitempty"`
	Sentiment   *SentimentContext   `json:"sentiment,omitempty"`
}

// Until returns a copy of the context restricted to observations at or
// before cutoff, so a historical replay never sees data from after the
// evaluation point. Snapshot fields (mark/index price, order book,
// liquidation aggregates, sentiment) carry no timestamps and pass
// through unchanged.
func (c *Context) Until(cutoff time.Time) *Context {
	if c == nil {
		return nil
	}
	out := &Context{Sentiment: c.Sentiment}
	if c.Macro != nil {
		out.Macro = make(map[string]ValueSeries, len(c.Macro))
		for k, s := range c.Macro {
			out.Macro[k] = s.Until(cutoff)
		}
	}
	if c.Intermarket != nil {
		out.Intermarket = make(map[string]ValueSeries, len(c.Intermarket))
		for k, s := range c.Intermarket {
			out.Intermarket[k] = s.Until(cutoff)
		}
	}
	if c.Derivatives != nil {
		d := *c.Derivatives
		d.FundingRates = d.FundingRates.Until(cutoff)
		d.OpenInterest = d.OpenInterest.Until(cutoff)
		out.Derivatives = &d
	}
	return out
}

// Macro series keys with well-known meanings.
const (
	MacroDXY          = "DXY"
	MacroVIX          = "VIX"
	MacroTNX          = "TNX"
	MacroTIP          = "TIP"
	MacroRealYields   = "REAL_YIELDS"
	MacroInflationExp = "INFLATION_EXP"
)

// Intermarket series keys with well-known meanings.
const (
	IntermarketSilver       = "XAGUSD"
	IntermarketCopper       = "COPPER"
	IntermarketCrude        = "CRUDE"
	IntermarketGDX          = "GDX"
	IntermarketGLD          = "GLD"
	IntermarketGLDHoldings  = "GLD_HOLDINGS"
	IntermarketBTCDominance = "BTC_DOMINANCE"
)

// MacroSeries returns the named macro series when it has at least minLen
// points.
func (c *Context) MacroSeries(key string, minLen int) (ValueSeries, bool) {
	if c == nil || c.Macro == nil {
		return nil, false
	}
	s, ok := c.Macro[key]
	if !ok || len(s) < minLen {
		return nil, false
	}
	return s, true
}

// IntermarketSeries returns the named intermarket series when it has at
// least minLen points.
func (c *Context) IntermarketSeries(key string, minLen int) (ValueSeries, bool) {
	if c == nil || c.Intermarket == nil {
		return nil, false
	}
	s, ok := c.Intermarket[key]
	if !ok || len(s) < minLen {
		return nil, false
	}
	return s, true
}

// Derivs returns the derivatives bundle, nil-safe on the receiver.
func (c *Context) Derivs() *DerivativesContext {
	if c == nil {
		return nil
	}
	return c.Derivatives
}

// Sent returns the sentiment bundle, nil-safe on the receiver.
func (c *Context) Sent() *SentimentContext {
	if c == nil {
		return nil
	}
	return c.Sentiment
}

// Book returns the order book snapshot, nil-safe on the receiver.
func (c *Context) Book() *OrderBook {
	if c == nil || c.Derivatives == nil {
		return nil
	}
	return c.Derivatives.OrderBook
}

// DerivativesContext holds perpetual/futures market state.
type DerivativesContext struct {
	// FundingRates is the per-interval funding rate series (8h rates as
	// fractions, e.g. 0.0001 = 1bp).
	FundingRates ValueSeries `json:"funding_rates,omitempty"`

	OpenInterest ValueSeries `json:"open_interest,omitempty"`

	MarkPrice  float64 `json:"mark_price,omitempty"`
	IndexPrice float64 `json:"index_price,omitempty"`

	Liquidations []Liquidation `json:"liquidations,omitempty"`

	OrderBook *OrderBook `json:"order_book,omitempty"`
}

// Liquidation is an aggregate liquidation observation for one interval.
type Liquidation struct {
	Long  float64 `json:"long"`
	Short float64 `json:"short"`
}

func (l Liquidation) Total() float64 { return l.Long + l.Short }

// OrderBook is a snapshot of resting liquidity.
type OrderBook struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// SentimentContext carries the news-derived sentiment snapshot.
type SentimentContext struct {
	// FearIndex ranges -1 (greed) to +1 (fear).
	FearIndex    float64 `json:"fear_index"`
	ArticleCount int     `json:"article_count"`
	Urgency      float64 `json:"urgency"`
}
