package feature

import "math"

// Shared normalization rules. Each helper converts an indicator reading into
// a (direction, strength) pair; the owning calculator keeps the thresholds
// documented in one place.

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rsiSignal: >=70 overbought (bearish, scaled over 70..100), <=30 oversold
// (bullish, scaled over 30..0), otherwise a weak 30%-strength lean toward
// the 50-midline side.
func rsiSignal(rsi float64) (int, float64) {
	switch {
	case rsi >= 70:
		return Bearish, math.Min(1, (rsi-70)/30)
	case rsi <= 30:
		return Bullish, math.Min(1, (30-rsi)/30)
	case rsi > 50:
		return Bearish, (rsi - 50) / 20 * 0.3
	default:
		return Bullish, (50 - rsi) / 20 * 0.3
	}
}

// adxSignal: no trend below ADX 18; direction from the DI spread; strength
// scaled over the 18..40 band (40..80 above), boosted 1.2x when the DI
// spread reaches 20.
func adxSignal(adx, plusDI, minusDI float64) (int, float64) {
	if adx < 18 {
		return Neutral, 0
	}

	var direction int
	switch {
	case plusDI > minusDI:
		direction = Bullish
	case minusDI > plusDI:
		direction = Bearish
	default:
		return Neutral, 0
	}

	var strength float64
	if adx >= 40 {
		strength = math.Min(1, (adx-40)/40)
	} else {
		strength = (adx - 18) / 22
	}

	if math.Abs(plusDI-minusDI) >= 20 {
		strength = math.Min(1, strength*1.2)
	}
	return direction, strength
}

// bollingerSignal normalizes a %B reading: band overshoot is a strong
// reversal signal, the 0.8-1.0 / 0.0-0.2 shoulders a moderate one, the
// middle zone neutral.
func bollingerSignal(pctB float64) (int, float64) {
	switch {
	case pctB > 1.0:
		return Bearish, math.Min(1, (pctB-1.0)*10)
	case pctB < 0.0:
		return Bullish, math.Min(1, -pctB*10)
	case pctB > 0.8:
		return Bearish, (pctB - 0.8) / 0.2 * 0.5
	case pctB < 0.2:
		return Bullish, (0.2 - pctB) / 0.2 * 0.5
	default:
		return Neutral, 0
	}
}

// maCrossSignal evaluates a fast/slow moving-average pair: strength scales
// with MA separation (5% apart = max), boosted 1.5x on a fresh cross.
func maCrossSignal(fast, slow, price, prevFast, prevSlow float64) (int, float64) {
	if slow == 0 {
		return Neutral, 0
	}
	crossedUp := prevFast <= prevSlow && fast > slow
	crossedDown := prevFast >= prevSlow && fast < slow
	distancePct := math.Abs(fast-slow) / slow * 100

	aboveBoth := price > fast && price > slow
	belowBoth := price < fast && price < slow

	switch {
	case crossedUp || (fast > slow && aboveBoth):
		strength := math.Min(1, distancePct/5)
		if crossedUp {
			strength = math.Min(1, strength*1.5)
		}
		return Bullish, strength
	case crossedDown || (fast < slow && belowBoth):
		strength := math.Min(1, distancePct/5)
		if crossedDown {
			strength = math.Min(1, strength*1.5)
		}
		return Bearish, strength
	default:
		return Neutral, 0
	}
}

// macdSignal: direction from the histogram side (or a fresh zero cross),
// strength from histogram magnitude with a 1.5x fresh-cross boost.
func macdSignal(macdLine, signalLine, hist, prevHist float64) (int, float64) {
	crossedUp := prevHist <= 0 && hist > 0
	crossedDown := prevHist >= 0 && hist < 0
	strength := math.Min(1, math.Abs(hist)/5)

	switch {
	case crossedUp || (macdLine > signalLine && hist > 0):
		if crossedUp {
			strength = math.Min(1, strength*1.5)
		}
		return Bullish, strength
	case crossedDown || (macdLine < signalLine && hist < 0):
		if crossedDown {
			strength = math.Min(1, strength*1.5)
		}
		return Bearish, strength
	default:
		return Neutral, 0
	}
}

// volumeSignal: a >2x spike is directional only alongside a >1% price move;
// sub-0.5x volume marks low conviction.
func volumeSignal(volumeRatio, priceChangePct float64) (int, float64) {
	switch {
	case volumeRatio > 2.0:
		strength := math.Min(1, (volumeRatio-2.0)/3.0)
		switch {
		case priceChangePct > 1.0:
			return Bullish, strength
		case priceChangePct < -1.0:
			return Bearish, strength
		default:
			return Neutral, strength * 0.3
		}
	case volumeRatio < 0.5:
		return Neutral, 0.1
	default:
		return Neutral, 0
	}
}
