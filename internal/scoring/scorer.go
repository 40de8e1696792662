package scoring

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/marketoracle/oracle/internal/feature"
)

// Contribution records one feature's part in the weighted score.
type Contribution struct {
	Name        string           `json:"name"`
	Category    feature.Category `json:"category"`
	RawValue    float64          `json:"raw_value"`
	Direction   int              `json:"direction"`
	Strength    float64          `json:"strength"`
	Weight      float64          `json:"weight"`
	Value       float64          `json:"contribution"`
	Explanation string           `json:"explanation"`
	Metadata    feature.Metadata `json:"metadata"`
}

// Result is the Layer-1 output: the weighted sum plus the per-feature
// breakdown, sorted by absolute contribution.
type Result struct {
	RawScore      float64          `json:"raw_score"`
	Contributions []Contribution   `json:"contributions"`
	Features      []feature.Result `json:"features"`

	// Failed lists calculators that panicked and were skipped.
	Failed []string `json:"failed,omitempty"`
}

// TopDrivers returns the n largest contributions by magnitude.
func (r *Result) TopDrivers(n int) []Contribution {
	if n > len(r.Contributions) {
		n = len(r.Contributions)
	}
	return r.Contributions[:n]
}

// CategoryScore sums the contributions of one category.
func (r *Result) CategoryScore(cat feature.Category) float64 {
	sum := 0.0
	for _, c := range r.Contributions {
		if c.Category == cat {
			sum += c.Value
		}
	}
	return sum
}

// Feature returns the named feature result, if present.
func (r *Result) Feature(name string) (feature.Result, bool) {
	for _, f := range r.Features {
		if f.Name == name {
			return f, true
		}
	}
	return feature.Result{}, false
}

// Scorer runs every applicable calculator over one input and folds the
// results into a weighted score. A panicking calculator is logged and
// skipped rather than taking the whole evaluation down.
type Scorer struct {
	registry *feature.Registry
	log      zerolog.Logger
}

func NewScorer(registry *feature.Registry, log zerolog.Logger) *Scorer {
	return &Scorer{registry: registry, log: log.With().Str("component", "scorer").Logger()}
}

// Score evaluates all applicable features and computes the weighted sum.
// overrides, when non-nil, replaces individual default weights by feature
// name.
func (s *Scorer) Score(in feature.Input, overrides map[string]float64) *Result {
	weights := WeightsFor(in.Timeframe)

	out := &Result{}
	for _, calc := range s.registry.All() {
		if !calc.Applicable(in.MarketType) {
			continue
		}

		res, ok := s.calculate(calc, in)
		if !ok {
			out.Failed = append(out.Failed, calc.Name())
			continue
		}
		out.Features = append(out.Features, res)

		weight := weights.Weight(res.Name)
		if overrides != nil {
			if w, ok := overrides[res.Name]; ok {
				weight = w
			}
		}

		contribution := weight * float64(res.Direction) * res.Strength
		out.RawScore += contribution

		out.Contributions = append(out.Contributions, Contribution{
			Name:        res.Name,
			Category:    res.Category,
			RawValue:    res.RawValue,
			Direction:   res.Direction,
			Strength:    res.Strength,
			Weight:      weight,
			Value:       contribution,
			Explanation: res.Explanation,
			Metadata:    res.Metadata,
		})
	}

	sort.SliceStable(out.Contributions, func(i, j int) bool {
		return math.Abs(out.Contributions[i].Value) > math.Abs(out.Contributions[j].Value)
	})

	return out
}

// calculate isolates a single calculator so one bad feature cannot abort
// the run.
func (s *Scorer) calculate(calc feature.Calculator, in feature.Input) (res feature.Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().
				Str("feature", calc.Name()).
				Str("symbol", in.Symbol).
				Interface("panic", r).
				Msg("feature calculation failed, skipping")
			ok = false
		}
	}()
	return calc.Calculate(in), true
}
