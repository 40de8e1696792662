package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	set := New(reg)

	set.DecisionsTotal.WithLabelValues("BUY", "1h").Inc()
	set.DecisionDuration.Observe(0.05)
	set.FeatureFailures.WithLabelValues("RSI").Inc()
	set.ConsensusRejected.Inc()
	set.HTTPRequests.WithLabelValues("/healthz", "200").Inc()
	set.HTTPDuration.WithLabelValues("/healthz").Observe(0.001)

	byName := gather(t, reg)
	for _, name := range []string{
		"oracle_decisions_total",
		"oracle_decision_duration_seconds",
		"oracle_feature_failures_total",
		"oracle_consensus_rejected_total",
		"oracle_http_requests_total",
		"oracle_http_request_duration_seconds",
	} {
		require.Contains(t, byName, name)
	}
}

func TestDecisionCounterLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	set := New(reg)

	set.DecisionsTotal.WithLabelValues("STRONG_BUY", "4h").Inc()
	set.DecisionsTotal.WithLabelValues("STRONG_BUY", "4h").Inc()
	set.DecisionsTotal.WithLabelValues("NEUTRAL", "1d").Inc()

	family := gather(t, reg)["oracle_decisions_total"]
	require.NotNil(t, family)
	assert.Equal(t, dto.MetricType_COUNTER, family.GetType())
	require.Len(t, family.GetMetric(), 2)

	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		var signal, tf string
		for _, l := range m.GetLabel() {
			switch l.GetName() {
			case "signal":
				signal = l.GetValue()
			case "timeframe":
				tf = l.GetValue()
			}
		}
		counts[signal+"/"+tf] = m.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["STRONG_BUY/4h"])
	assert.Equal(t, 1.0, counts["NEUTRAL/1d"])
}

func TestHistogramObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	set := New(reg)

	set.DecisionDuration.Observe(0.01)
	set.DecisionDuration.Observe(0.02)

	family := gather(t, reg)["oracle_decision_duration_seconds"]
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)
	hist := family.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.InDelta(t, 0.03, hist.GetSampleSum(), 1e-9)
}

func TestSeparateRegistriesAreIsolated(t *testing.T) {
	regA := prometheus.NewRegistry()
	regB := prometheus.NewRegistry()
	setA := New(regA)
	New(regB)

	setA.ConsensusRejected.Inc()

	famB := gather(t, regB)["oracle_consensus_rejected_total"]
	require.NotNil(t, famB)
	require.Len(t, famB.GetMetric(), 1)
	assert.Equal(t, 0.0, famB.GetMetric()[0].GetCounter().GetValue())
}
