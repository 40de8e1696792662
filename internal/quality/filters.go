package quality

import (
	"fmt"

	"github.com/marketoracle/oracle/internal/rules"
)

func warnLowAgreement(agreement float64) string {
	return fmt.Sprintf("Low feature agreement (%.1f%%) - indicators are conflicting", agreement)
}

func warnAnomaly(anomaly float64) string {
	return fmt.Sprintf("Unusual market conditions detected (anomaly: %.2f) - exercise caution", anomaly)
}

func warnWeakStrongSignal(out rules.Outcome) string {
	return fmt.Sprintf("Strong signal (%s) with low confidence (%d%%) - consider waiting for confirmation",
		out.Signal, out.Confidence)
}

// ApplyFilters runs the post-hoc downgrades: low quality demotes STRONG
// signals one step, high anomaly and low agreement each dock confidence
// once. Every applied filter is recorded as a warning on the assessment.
func ApplyFilters(a *Assessment, signal rules.Signal, confidence int) (rules.Signal, int) {
	if a.QualityScore < 50 {
		switch signal {
		case rules.StrongBuy:
			signal = rules.Buy
			a.Warnings = append(a.Warnings, "Signal downgraded from STRONG_BUY to BUY due to low quality score")
		case rules.StrongSell:
			signal = rules.Sell
			a.Warnings = append(a.Warnings, "Signal downgraded from STRONG_SELL to SELL due to low quality score")
		}
	}

	if a.AnomalyScore > 0.7 {
		confidence -= 15
		if confidence < 0 {
			confidence = 0
		}
		a.Warnings = append(a.Warnings, fmt.Sprintf(
			"Confidence reduced by 15%% due to high anomaly score (%.2f)", a.AnomalyScore))
	}

	if a.FeatureAgreement < 55 {
		confidence -= 10
		if confidence < 0 {
			confidence = 0
		}
		a.Warnings = append(a.Warnings, fmt.Sprintf(
			"Confidence reduced by 10%% due to low feature agreement (%.1f%%)", a.FeatureAgreement))
	}

	return signal, confidence
}
