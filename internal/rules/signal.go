package rules

import "fmt"

// Signal is the ordered seven-step trade signal. The numeric values order
// from strongly bearish to strongly bullish so signals compare directly.
type Signal int8

const (
	StrongSell Signal = -3
	Sell       Signal = -2
	WeakSell   Signal = -1
	Neutral    Signal = 0
	WeakBuy    Signal = 1
	Buy        Signal = 2
	StrongBuy  Signal = 3
)

func (s Signal) String() string {
	switch s {
	case StrongSell:
		return "STRONG_SELL"
	case Sell:
		return "SELL"
	case WeakSell:
		return "WEAK_SELL"
	case Neutral:
		return "NEUTRAL"
	case WeakBuy:
		return "WEAK_BUY"
	case Buy:
		return "BUY"
	case StrongBuy:
		return "STRONG_BUY"
	}
	return fmt.Sprintf("Signal(%d)", int8(s))
}

// IsBuy reports whether the signal is on the long side.
func (s Signal) IsBuy() bool { return s > Neutral }

// IsSell reports whether the signal is on the short side.
func (s Signal) IsSell() bool { return s < Neutral }

// MarshalText makes signals render as their names in JSON and YAML.
func (s Signal) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a signal name.
func (s *Signal) UnmarshalText(b []byte) error {
	parsed, err := ParseSignal(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignal converts a signal name back to its value.
func ParseSignal(name string) (Signal, error) {
	for sig := StrongSell; sig <= StrongBuy; sig++ {
		if sig.String() == name {
			return sig, nil
		}
	}
	return Neutral, fmt.Errorf("unknown signal %q", name)
}

// Bias is the coarse directional read behind a signal.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasNeutral Bias = "NEUTRAL"
	BiasBearish Bias = "BEARISH"
)

// BiasOf returns the bias implied by a signal.
func BiasOf(s Signal) Bias {
	switch {
	case s > Neutral:
		return BiasBullish
	case s < Neutral:
		return BiasBearish
	}
	return BiasNeutral
}
