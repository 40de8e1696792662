package market

import "time"

// Candle is a single OHLCV bar.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series is an ordered sequence of candles, ascending by timestamp.
type Series []Candle

func (s Series) Len() int { return len(s) }

// Last returns the most recent candle. Callers must check Len first.
func (s Series) Last() Candle { return s[len(s)-1] }

func (s Series) Opens() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Open
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Volume
	}
	return out
}

// Point is one observation of a scalar context series (an index level, a
// funding rate, ETF holdings, and so on).
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ValueSeries is an ordered sequence of points, ascending by timestamp.
type ValueSeries []Point

func (v ValueSeries) Len() int { return len(v) }

// Last returns the most recent value. Callers must check Len first.
func (v ValueSeries) Last() float64 { return v[len(v)-1].Value }

// At returns the value n points back from the end, clamped to the oldest
// point when the series is shorter than n.
func (v ValueSeries) At(n int) float64 {
	idx := len(v) - 1 - n
	if idx < 0 {
		idx = 0
	}
	return v[idx].Value
}

// Until returns the prefix of points observed at or before cutoff.
func (v ValueSeries) Until(cutoff time.Time) ValueSeries {
	n := len(v)
	for n > 0 && v[n-1].Timestamp.After(cutoff) {
		n--
	}
	if n == 0 {
		return nil
	}
	return v[:n]
}

func (v ValueSeries) Values() []float64 {
	out := make([]float64, len(v))
	for i, p := range v {
		out[i] = p.Value
	}
	return out
}
