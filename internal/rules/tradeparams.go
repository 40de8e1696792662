package rules

import (
	"github.com/shopspring/decimal"

	"github.com/marketoracle/oracle/internal/indicators"
	"github.com/marketoracle/oracle/internal/market"
)

// TradeParams are the price levels attached to a directional signal.
// Levels use decimals so downstream order sizing never accumulates float
// drift.
type TradeParams struct {
	Entry      decimal.Decimal `json:"entry_price"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	RiskReward decimal.Decimal `json:"risk_reward"`
}

var (
	stopMultiplierHighVol = decimal.NewFromFloat(2.5)
	stopMultiplierNormal  = decimal.NewFromFloat(2.0)

	rrHighConfidence = decimal.NewFromFloat(3.0)
	rrMidConfidence  = decimal.NewFromFloat(2.5)
	rrLowConfidence  = decimal.NewFromFloat(2.0)
)

// ComputeTradeParams derives entry, stop, and target from ATR(14). A
// neutral signal or missing ATR yields nil: no trade, no params.
func ComputeTradeParams(s market.Series, signal Signal, confidence int, vol VolatilityRegime) *TradeParams {
	if signal == Neutral {
		return nil
	}

	atr, ok := indicators.ATR(s, 14)
	if !ok {
		return nil
	}

	entry := decimal.NewFromFloat(s.Last().Close)
	atrDec := decimal.NewFromFloat(atr)

	stopMult := stopMultiplierNormal
	if vol == VolHigh {
		stopMult = stopMultiplierHighVol
	}

	var rr decimal.Decimal
	switch {
	case confidence > 80:
		rr = rrHighConfidence
	case confidence > 60:
		rr = rrMidConfidence
	default:
		rr = rrLowConfidence
	}

	params := &TradeParams{Entry: entry, RiskReward: rr}
	if signal.IsBuy() {
		params.StopLoss = entry.Sub(atrDec.Mul(stopMult))
		risk := entry.Sub(params.StopLoss)
		params.TakeProfit = entry.Add(risk.Mul(rr))
	} else {
		params.StopLoss = entry.Add(atrDec.Mul(stopMult))
		risk := params.StopLoss.Sub(entry)
		params.TakeProfit = entry.Sub(risk.Mul(rr))
	}
	return params
}
