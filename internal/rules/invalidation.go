package rules

import (
	"fmt"
	"strings"

	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/scoring"
)

// InvalidationConditions lists the observable events that would void the
// signal, derived from the features that drove it.
func InvalidationConditions(l1 *scoring.Result, signal Signal, regime RegimeContext) []string {
	var conditions []string

	trending := regime.TrendStrength == StrengthStrong || regime.TrendStrength == StrengthModerate

	switch {
	case signal.IsBuy():
		if ema, ok := emaFeature(l1); ok && ema.Metadata.EMASlow != 0 {
			conditions = append(conditions, fmt.Sprintf("Close below EMA50 (%.2f)", ema.Metadata.EMASlow))
		}
		if trending {
			conditions = append(conditions, "ADX drops below 18 (trend failure)")
		}
		if dxy, ok := l1.Feature("DXY"); ok && dxy.Direction == 1 {
			conditions = append(conditions, "DXY breaks above recent high (bearish for gold/crypto)")
		}
	case signal.IsSell():
		if ema, ok := emaFeature(l1); ok && ema.Metadata.EMASlow != 0 {
			conditions = append(conditions, fmt.Sprintf("Close above EMA50 (%.2f)", ema.Metadata.EMASlow))
		}
		if trending {
			conditions = append(conditions, "ADX drops below 18 (trend failure)")
		}
		if dxy, ok := l1.Feature("DXY"); ok && dxy.Direction == -1 {
			conditions = append(conditions, "DXY breaks below recent low (bullish for gold/crypto)")
		}
	}

	if regime.Volatility != VolHigh {
		conditions = append(conditions, "Volatility spike >80th percentile (regime change)")
	}

	return conditions
}

func emaFeature(l1 *scoring.Result) (feature.Result, bool) {
	for _, res := range l1.Features {
		if strings.Contains(res.Name, "EMA") {
			return res, true
		}
	}
	return feature.Result{}, false
}
