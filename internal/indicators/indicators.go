// Package indicators provides the raw indicator math behind the feature
// calculators. Standard studies are computed with go-talib; studies talib
// does not ship (Supertrend, session VWAP) are implemented here directly.
package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/marketoracle/oracle/internal/market"
)

// RSI returns the latest Wilder RSI value.
func RSI(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}
	out := talib.Rsi(closes, period)
	return out[len(out)-1], true
}

// MACD returns the latest MACD line, signal line, and the last two
// histogram values (current, previous).
func MACD(closes []float64, fast, slow, signal int) (macd, sig, hist, prevHist float64, ok bool) {
	if len(closes) < slow+signal+1 {
		return 0, 0, 0, 0, false
	}
	macdLine, signalLine, histogram := talib.Macd(closes, fast, slow, signal)
	n := len(histogram)
	prev := 0.0
	if n > 1 {
		prev = histogram[n-2]
	}
	return macdLine[n-1], signalLine[n-1], histogram[n-1], prev, true
}

// BollingerBands returns the latest upper/middle/lower band values.
func BollingerBands(closes []float64, period int, stdDev float64) (upper, middle, lower float64, ok bool) {
	if len(closes) < period {
		return 0, 0, 0, false
	}
	u, m, l := talib.BBands(closes, period, stdDev, stdDev, talib.SMA)
	n := len(u)
	return u[n-1], m[n-1], l[n-1], true
}

// BBWidthSeries returns the band width as a percentage of the middle band
// for every bar with enough lookback.
func BBWidthSeries(closes []float64, period int, stdDev float64) ([]float64, bool) {
	if len(closes) < period {
		return nil, false
	}
	u, m, l := talib.BBands(closes, period, stdDev, stdDev, talib.SMA)
	widths := make([]float64, len(closes))
	for i := range closes {
		if m[i] != 0 {
			widths[i] = (u[i] - l[i]) / m[i] * 100
		}
	}
	return widths, true
}

// ADX returns the latest ADX, +DI and -DI values.
func ADX(s market.Series, period int) (adx, plusDI, minusDI float64, ok bool) {
	if s.Len() < 2*period+1 {
		return 0, 0, 0, false
	}
	highs, lows, closes := s.Highs(), s.Lows(), s.Closes()
	a := talib.Adx(highs, lows, closes, period)
	p := talib.PlusDI(highs, lows, closes, period)
	m := talib.MinusDI(highs, lows, closes, period)
	n := len(a)
	return a[n-1], p[n-1], m[n-1], true
}

// ATR returns the latest ATR value.
func ATR(s market.Series, period int) (float64, bool) {
	if s.Len() < period+1 {
		return 0, false
	}
	out := talib.Atr(s.Highs(), s.Lows(), s.Closes(), period)
	return out[len(out)-1], true
}

// ATRSeries returns the full ATR series.
func ATRSeries(s market.Series, period int) ([]float64, bool) {
	if s.Len() < period+1 {
		return nil, false
	}
	return talib.Atr(s.Highs(), s.Lows(), s.Closes(), period), true
}

// Stochastic returns the latest slow %K and %D values.
func Stochastic(s market.Series, kPeriod, dPeriod int) (k, d float64, ok bool) {
	if s.Len() < kPeriod+2*dPeriod {
		return 0, 0, false
	}
	slowK, slowD := talib.Stoch(s.Highs(), s.Lows(), s.Closes(), kPeriod, dPeriod, talib.SMA, dPeriod, talib.SMA)
	n := len(slowK)
	return slowK[n-1], slowD[n-1], true
}

// EMA returns the latest and previous EMA values.
func EMA(closes []float64, period int) (cur, prev float64, ok bool) {
	if len(closes) < period+1 {
		return 0, 0, false
	}
	out := talib.Ema(closes, period)
	n := len(out)
	return out[n-1], out[n-2], true
}

// EMASeries returns the full EMA series.
func EMASeries(closes []float64, period int) ([]float64, bool) {
	if len(closes) < period {
		return nil, false
	}
	return talib.Ema(closes, period), true
}

// SMA returns the latest and previous SMA values.
func SMA(values []float64, period int) (cur, prev float64, ok bool) {
	if len(values) < period+1 {
		return 0, 0, false
	}
	out := talib.Sma(values, period)
	n := len(out)
	return out[n-1], out[n-2], true
}

// SMALast returns only the latest SMA value, tolerating series exactly
// period long.
func SMALast(values []float64, period int) (float64, bool) {
	if len(values) < period {
		return 0, false
	}
	out := talib.Sma(values, period)
	return out[len(out)-1], true
}

// OBV returns the latest on-balance volume and its value lookback bars ago.
func OBV(closes, volumes []float64, lookback int) (cur, past float64, ok bool) {
	if len(closes) < lookback+1 || len(closes) != len(volumes) {
		return 0, 0, false
	}
	out := talib.Obv(closes, volumes)
	n := len(out)
	return out[n-1], out[n-1-lookback], true
}

// Supertrend computes the latest Supertrend level and direction (+1 price
// above the trend line, -1 below, 0 undetermined).
func Supertrend(s market.Series, period int, multiplier float64) (level float64, direction int, ok bool) {
	if s.Len() < period+2 {
		return 0, 0, false
	}
	atr := talib.Atr(s.Highs(), s.Lows(), s.Closes(), period)

	n := s.Len()
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := 0; i < n; i++ {
		mid := (s[i].High + s[i].Low) / 2
		upper[i] = mid + multiplier*atr[i]
		lower[i] = mid - multiplier*atr[i]
	}

	trend := make([]float64, n)
	dir := make([]int, n)
	for i := period; i < n; i++ {
		switch {
		case s[i].Close > upper[i-1]:
			trend[i] = lower[i]
			dir[i] = 1
		case s[i].Close < lower[i-1]:
			trend[i] = upper[i]
			dir[i] = -1
		default:
			trend[i] = trend[i-1]
			dir[i] = dir[i-1]
		}
	}
	return trend[n-1], dir[n-1], true
}

// VWAP computes the volume-weighted average price across the whole series.
func VWAP(s market.Series) (float64, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	var pv, vol float64
	for _, c := range s {
		typical := (c.High + c.Low + c.Close) / 3
		pv += typical * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return 0, false
	}
	return pv / vol, true
}

// PercentileRank returns the fraction of window values strictly below v.
func PercentileRank(window []float64, v float64) float64 {
	if len(window) == 0 {
		return 0.5
	}
	below := 0
	for _, w := range window {
		if v > w {
			below++
		}
	}
	return float64(below) / float64(len(window))
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, 0 when fewer than two
// values are given.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Returns converts a close series into simple per-bar returns.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}
