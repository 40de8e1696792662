// Package metrics exposes Prometheus instrumentation for the evaluation
// pipeline and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set bundles the collectors the service registers.
type Set struct {
	DecisionsTotal    *prometheus.CounterVec
	DecisionDuration  prometheus.Histogram
	FeatureFailures   *prometheus.CounterVec
	ConsensusRejected prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers the collector set on the given registerer.
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oracle",
			Name:      "decisions_total",
			Help:      "Decisions evaluated, labeled by signal.",
		}, []string{"signal", "timeframe"}),

		DecisionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oracle",
			Name:      "decision_duration_seconds",
			Help:      "Wall time of one full pipeline evaluation.",
			Buckets:   prometheus.DefBuckets,
		}),

		FeatureFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oracle",
			Name:      "feature_failures_total",
			Help:      "Feature calculations skipped after a panic.",
		}, []string{"feature"}),

		ConsensusRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "oracle",
			Name:      "consensus_rejected_total",
			Help:      "Decisions the consensus gates declined to fire.",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oracle",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oracle",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
