// Package backtest replays historical decisions against forward price
// data and aggregates trade performance.
package backtest

import (
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

// Record is one historical decision to replay. Price levels are plain
// floats: simulation compares against candle extremes, it does not size
// orders.
type Record struct {
	ID         string           `json:"id"`
	Symbol     string           `json:"symbol"`
	Timeframe  market.Timeframe `json:"timeframe"`
	Signal     rules.Signal     `json:"signal"`
	Confidence int              `json:"confidence"`

	Entry      float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// ExitReason states how a simulated trade closed.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTimeout    ExitReason = "TIMEOUT"
)

// Outcome is the simulated result of one trade.
type Outcome struct {
	Record

	// MaxFavorable and MaxAdverse are the best and worst prices touched
	// while the trade was open.
	MaxFavorable float64    `json:"max_favorable_excursion"`
	MaxAdverse   float64    `json:"max_adverse_excursion"`
	ExitPrice    float64    `json:"exit_price"`
	ExitReason   ExitReason `json:"exit_reason"`

	PnLPercent    float64 `json:"pnl_percent"`
	PnLR          float64 `json:"pnl_r"`
	DurationHours float64 `json:"duration_hours"`
	Profitable    bool    `json:"was_profitable"`
	HitTarget     bool    `json:"hit_target"`
	HitStop       bool    `json:"hit_stop"`
}

// holdingWindows is the number of forward bars scanned per timeframe.
var holdingWindows = map[market.Timeframe]int{
	market.TF15m: 24, // 6 hours
	market.TF1h:  48, // 2 days
	market.TF4h:  72, // 12 days
	market.TF1d:  30, // 30 days
	market.TF1w:  12, // 12 weeks
}

// HoldingWindow returns the forward-scan length for a timeframe, with a
// 48-bar default for unlisted frames.
func HoldingWindow(tf market.Timeframe) int {
	if n, ok := holdingWindows[tf]; ok {
		return n
	}
	return 48
}

// Simulate walks a trade forward through the bars after its decision.
// Within each bar the stop is checked before the target: when both levels
// sit inside one bar's range the pessimistic read wins. A trade that
// survives the whole window exits at the final close as a TIMEOUT.
// Returns false when the record has no levels or forward is too short.
func Simulate(rec Record, forward market.Series) (Outcome, bool) {
	if rec.Signal == rules.Neutral || rec.Entry == 0 || rec.StopLoss == 0 || rec.TakeProfit == 0 {
		return Outcome{}, false
	}
	if forward.Len() < 5 {
		return Outcome{}, false
	}

	window := HoldingWindow(rec.Timeframe)
	if forward.Len() < window {
		window = forward.Len()
	}

	isLong := rec.Signal.IsBuy()

	out := Outcome{
		Record:       rec,
		MaxFavorable: rec.Entry,
		MaxAdverse:   rec.Entry,
	}

	exitIndex := -1
	for i := 0; i < window; i++ {
		bar := forward[i]

		if isLong {
			if bar.High > out.MaxFavorable {
				out.MaxFavorable = bar.High
			}
			if bar.Low < out.MaxAdverse {
				out.MaxAdverse = bar.Low
			}
			if bar.Low <= rec.StopLoss {
				out.ExitPrice = rec.StopLoss
				out.ExitReason = ExitStopLoss
				exitIndex = i
				break
			}
			if bar.High >= rec.TakeProfit {
				out.ExitPrice = rec.TakeProfit
				out.ExitReason = ExitTakeProfit
				exitIndex = i
				break
			}
		} else {
			if bar.Low < out.MaxFavorable {
				out.MaxFavorable = bar.Low
			}
			if bar.High > out.MaxAdverse {
				out.MaxAdverse = bar.High
			}
			if bar.High >= rec.StopLoss {
				out.ExitPrice = rec.StopLoss
				out.ExitReason = ExitStopLoss
				exitIndex = i
				break
			}
			if bar.Low <= rec.TakeProfit {
				out.ExitPrice = rec.TakeProfit
				out.ExitReason = ExitTakeProfit
				exitIndex = i
				break
			}
		}
	}

	if exitIndex < 0 {
		exitIndex = window - 1
		out.ExitPrice = forward[exitIndex].Close
		out.ExitReason = ExitTimeout
	}

	var risk, reward float64
	if isLong {
		out.PnLPercent = (out.ExitPrice - rec.Entry) / rec.Entry * 100
		risk = rec.Entry - rec.StopLoss
		reward = out.ExitPrice - rec.Entry
	} else {
		out.PnLPercent = (rec.Entry - out.ExitPrice) / rec.Entry * 100
		risk = rec.StopLoss - rec.Entry
		reward = rec.Entry - out.ExitPrice
	}
	if risk != 0 {
		out.PnLR = reward / risk
	}

	out.DurationHours = float64(exitIndex) * float64(rec.Timeframe.Minutes()) / 60
	out.Profitable = out.PnLPercent > 0
	out.HitTarget = out.ExitReason == ExitTakeProfit
	out.HitStop = out.ExitReason == ExitStopLoss

	return out, true
}
