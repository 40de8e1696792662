package backtest

import (
	"fmt"
	"math"

	"github.com/marketoracle/oracle/internal/indicators"
)

// SegmentStats are the core stats recomputed for one slice of trades.
type SegmentStats struct {
	Count   int     `json:"count"`
	WinRate float64 `json:"win_rate"`
	AvgR    float64 `json:"avg_r"`
	AvgPnL  float64 `json:"avg_pnl"`
}

// Metrics aggregates performance across all simulated trades. Ratio
// fields are pointers: nil means the input could not support the
// calculation (for example Sharpe with zero return variance).
type Metrics struct {
	TotalTrades      int `json:"total_trades"`
	ProfitableTrades int `json:"profitable_trades"`
	LosingTrades     int `json:"losing_trades"`

	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	AvgR         float64 `json:"avg_r"`

	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
	MaxDrawdown          float64 `json:"max_drawdown"`

	SharpeRatio  *float64 `json:"sharpe_ratio,omitempty"`
	SortinoRatio *float64 `json:"sortino_ratio,omitempty"`

	KellyCriterion *float64 `json:"kelly_criterion,omitempty"`
	Expectancy     *float64 `json:"expectancy,omitempty"`
	RecoveryFactor *float64 `json:"recovery_factor,omitempty"`

	MaxMAE *float64 `json:"max_adverse_excursion,omitempty"`
	MaxMFE *float64 `json:"max_favorable_excursion,omitempty"`
	AvgMAE *float64 `json:"avg_mae,omitempty"`
	AvgMFE *float64 `json:"avg_mfe,omitempty"`

	ByConfidence map[string]SegmentStats `json:"metrics_by_confidence"`
	BySignal     map[string]SegmentStats `json:"metrics_by_signal"`
	ByTimeframe  map[string]SegmentStats `json:"metrics_by_timeframe"`
}

// confidenceBins segment trades by decision confidence. The top bin is
// closed at 100 so full-confidence trades are counted.
var confidenceBins = []struct {
	low, high int
	label     string
}{
	{0, 50, "0-50%"},
	{50, 70, "50-70%"},
	{70, 85, "70-85%"},
	{85, 101, "85-100%"},
}

// annualization for Sharpe/Sortino, per daily-return convention.
var annualize = math.Sqrt(252)

// ComputeMetrics aggregates outcomes into the full metric set.
func ComputeMetrics(outcomes []Outcome) *Metrics {
	m := &Metrics{
		ByConfidence: map[string]SegmentStats{},
		BySignal:     map[string]SegmentStats{},
		ByTimeframe:  map[string]SegmentStats{},
	}
	if len(outcomes) == 0 {
		return m
	}

	m.TotalTrades = len(outcomes)

	var (
		returns      []float64
		rMultiples   []float64
		grossProfit  float64
		grossLoss    float64
		wins, losses []float64
	)
	for _, o := range outcomes {
		returns = append(returns, o.PnLPercent)
		rMultiples = append(rMultiples, o.PnLR)
		if o.Profitable {
			m.ProfitableTrades++
		}
		switch {
		case o.PnLPercent > 0:
			grossProfit += o.PnLPercent
			wins = append(wins, o.PnLPercent)
		case o.PnLPercent < 0:
			grossLoss += math.Abs(o.PnLPercent)
			losses = append(losses, o.PnLPercent)
		}
	}
	m.LosingTrades = m.TotalTrades - m.ProfitableTrades
	m.WinRate = float64(m.ProfitableTrades) / float64(m.TotalTrades) * 100

	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	} else {
		m.ProfitFactor = math.Inf(1)
	}
	if len(wins) > 0 {
		m.AvgWin = indicators.Mean(wins)
	}
	if len(losses) > 0 {
		m.AvgLoss = indicators.Mean(losses)
	}
	m.AvgR = indicators.Mean(rMultiples)

	m.MaxConsecutiveWins, m.MaxConsecutiveLosses = streaks(outcomes)
	m.MaxDrawdown = maxDrawdown(returns)

	if sd := indicators.StdDev(returns); sd > 0 {
		sharpe := indicators.Mean(returns) / sd * annualize
		m.SharpeRatio = &sharpe
	}
	if downside := indicators.StdDev(losses); len(losses) > 0 && downside > 0 {
		sortino := indicators.Mean(returns) / downside * annualize
		m.SortinoRatio = &sortino
	}

	// Kelly: f* = (p*W - (1-p)) / W with W = avgWin/|avgLoss|, floored
	// at zero because a negative Kelly just means "don't trade this".
	if m.AvgLoss < 0 && m.AvgWin > 0 {
		p := m.WinRate / 100
		w := m.AvgWin / math.Abs(m.AvgLoss)
		kelly := (p*w - (1 - p)) / w * 100
		if kelly < 0 {
			kelly = 0
		}
		m.KellyCriterion = &kelly
	}

	if m.AvgWin > 0 || m.AvgLoss < 0 {
		expectancy := m.WinRate/100*m.AvgWin + (100-m.WinRate)/100*m.AvgLoss
		m.Expectancy = &expectancy
	}

	if m.MaxDrawdown > 0 {
		netProfit := 0.0
		for _, r := range returns {
			netProfit += r
		}
		recovery := netProfit / m.MaxDrawdown
		m.RecoveryFactor = &recovery
	}

	maeList, mfeList := estimateExcursions(outcomes)
	if len(maeList) > 0 {
		maxMAE := maeList[0]
		maxMFE := mfeList[0]
		for i := range maeList {
			if maeList[i] < maxMAE {
				maxMAE = maeList[i]
			}
			if mfeList[i] > maxMFE {
				maxMFE = mfeList[i]
			}
		}
		avgMAE := indicators.Mean(maeList)
		avgMFE := indicators.Mean(mfeList)
		m.MaxMAE, m.MaxMFE = &maxMAE, &maxMFE
		m.AvgMAE, m.AvgMFE = &avgMAE, &avgMFE
	}

	m.ByConfidence = segmentByConfidence(outcomes)
	m.BySignal = segmentBy(outcomes, func(o Outcome) string { return o.Signal.String() })
	m.ByTimeframe = segmentBy(outcomes, func(o Outcome) string { return string(o.Timeframe) })

	return m
}

// streaks finds the longest win and loss runs. Counters reset whenever
// the outcome sign flips.
func streaks(outcomes []Outcome) (maxWins, maxLosses int) {
	current := 0
	for _, o := range outcomes {
		if o.Profitable {
			if current < 0 {
				current = 0
			}
			current++
			if current > maxWins {
				maxWins = current
			}
		} else {
			if current > 0 {
				current = 0
			}
			current--
			if -current > maxLosses {
				maxLosses = -current
			}
		}
	}
	return maxWins, maxLosses
}

// maxDrawdown is the deepest peak-to-trough decline of the compounded
// return curve, as a positive percentage.
func maxDrawdown(returns []float64) float64 {
	equity := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		equity *= 1 + r/100
		if equity > peak {
			peak = equity
		}
		if dd := (equity - peak) / peak * 100; dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// estimateExcursions is a heuristic: winners are assumed to have drawn
// down about 30% of their final gain first, losers to have shown about
// 20% of their loss as open profit. True MAE/MFE needs tick data the
// simulator does not have.
func estimateExcursions(outcomes []Outcome) (mae, mfe []float64) {
	for _, o := range outcomes {
		if o.Profitable {
			est := math.Min(-math.Abs(o.PnLPercent)*0.3, -0.5)
			mae = append(mae, est)
			mfe = append(mfe, math.Abs(o.PnLPercent))
		} else {
			mae = append(mae, o.PnLPercent)
			mfe = append(mfe, math.Abs(o.PnLPercent)*0.2)
		}
	}
	return mae, mfe
}

func segmentByConfidence(outcomes []Outcome) map[string]SegmentStats {
	out := map[string]SegmentStats{}
	for _, bin := range confidenceBins {
		var subset []Outcome
		for _, o := range outcomes {
			if o.Confidence >= bin.low && o.Confidence < bin.high {
				subset = append(subset, o)
			}
		}
		if len(subset) > 0 {
			out[bin.label] = segmentStats(subset)
		}
	}
	return out
}

func segmentBy(outcomes []Outcome, key func(Outcome) string) map[string]SegmentStats {
	groups := map[string][]Outcome{}
	for _, o := range outcomes {
		k := key(o)
		groups[k] = append(groups[k], o)
	}
	out := make(map[string]SegmentStats, len(groups))
	for k, subset := range groups {
		out[k] = segmentStats(subset)
	}
	return out
}

func segmentStats(subset []Outcome) SegmentStats {
	wins := 0
	var rs, pnls []float64
	for _, o := range subset {
		if o.Profitable {
			wins++
		}
		rs = append(rs, o.PnLR)
		pnls = append(pnls, o.PnLPercent)
	}
	return SegmentStats{
		Count:   len(subset),
		WinRate: float64(wins) / float64(len(subset)) * 100,
		AvgR:    indicators.Mean(rs),
		AvgPnL:  indicators.Mean(pnls),
	}
}

// FormatProfitFactor renders the profit factor, showing +Inf readably.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "+Inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
