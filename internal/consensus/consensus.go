// Package consensus analyzes agreement across feature categories, in the
// spirit of exchange-screener voting systems: a signal only fires when
// enough of the board points the same way.
package consensus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketoracle/oracle/internal/feature"
)

// Agreement tiers over the consensus percentage.
const (
	StrongConsensusAt   = 0.75
	ModerateConsensusAt = 0.60
	WeakConsensusAt     = 0.50
)

// AgreementLevel labels the consensus tier.
type AgreementLevel string

const (
	StrongConsensus   AgreementLevel = "STRONG_CONSENSUS"
	ModerateConsensus AgreementLevel = "MODERATE_CONSENSUS"
	WeakConsensus     AgreementLevel = "WEAK_CONSENSUS"
	NoConsensus       AgreementLevel = "NO_CONSENSUS"
)

// Direction is a category's majority vote.
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

// CategoryVotes tallies directional votes within one feature category.
type CategoryVotes struct {
	Bull    int `json:"bull"`
	Bear    int `json:"bear"`
	Neutral int `json:"neutral"`
}

func (v CategoryVotes) Total() int { return v.Bull + v.Bear + v.Neutral }

// Direction returns the strict-majority direction, neutral on ties.
func (v CategoryVotes) Direction() Direction {
	if v.Bull > v.Bear && v.Bull > v.Neutral {
		return DirectionBullish
	}
	if v.Bear > v.Bull && v.Bear > v.Neutral {
		return DirectionBearish
	}
	return DirectionNeutral
}

// Strength is the share of votes behind the dominant direction, 0-1.
func (v CategoryVotes) Strength() float64 {
	total := v.Total()
	if total == 0 {
		return 0
	}
	max := v.Bull
	if v.Bear > max {
		max = v.Bear
	}
	if v.Neutral > max {
		max = v.Neutral
	}
	return float64(max) / float64(total)
}

// Result is the full consensus breakdown for one evaluation.
type Result struct {
	ConsensusPercentage    float64                            `json:"consensus_percentage"`
	CategoryVotes          map[feature.Category]CategoryVotes `json:"category_votes"`
	AgreementLevel         AgreementLevel                     `json:"agreement_level"`
	Conflicts              []string                           `json:"conflicts"`
	TotalFeatures          int                                `json:"total_features"`
	BullCount              int                                `json:"bull_count"`
	BearCount              int                                `json:"bear_count"`
	NeutralCount           int                                `json:"neutral_count"`
	CrossCategoryAgreement float64                            `json:"cross_category_agreement"`
}

// seedCategories are always present in the vote map even with zero votes,
// so readers see the whole board.
var seedCategories = []feature.Category{
	feature.CategoryTechnical,
	feature.CategoryMacro,
	feature.CategoryCryptoDerivatives,
	feature.CategoryIntermarket,
	feature.CategorySentiment,
	feature.CategoryCryptoSpot,
}

// conflictPairs are category pairs that commonly disagree; only these are
// checked for reportable conflicts.
var conflictPairs = [][2]feature.Category{
	{feature.CategoryTechnical, feature.CategoryMacro},
	{feature.CategoryTechnical, feature.CategorySentiment},
	{feature.CategoryCryptoDerivatives, feature.CategoryTechnical},
	{feature.CategoryCryptoSpot, feature.CategoryTechnical},
	{feature.CategoryVolume, feature.CategoryTechnical},
}

// significantConflictAt: both sides need this much internal agreement for
// their disagreement to count.
const significantConflictAt = 0.6

// Engine computes consensus and derives confidence adjustments from it.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Analyze tallies per-category votes and the overall consensus read.
func (e *Engine) Analyze(results []feature.Result) *Result {
	votes := make(map[feature.Category]CategoryVotes, len(seedCategories))
	for _, cat := range seedCategories {
		votes[cat] = CategoryVotes{}
	}

	for _, r := range results {
		v := votes[r.Category]
		switch {
		case r.Direction > 0:
			v.Bull++
		case r.Direction < 0:
			v.Bear++
		default:
			v.Neutral++
		}
		votes[r.Category] = v
	}

	out := &Result{
		CategoryVotes: votes,
		TotalFeatures: len(results),
	}
	for _, v := range votes {
		out.BullCount += v.Bull
		out.BearCount += v.Bear
		out.NeutralCount += v.Neutral
	}

	if out.TotalFeatures > 0 {
		max := out.BullCount
		if out.BearCount > max {
			max = out.BearCount
		}
		if out.NeutralCount > max {
			max = out.NeutralCount
		}
		out.ConsensusPercentage = float64(max) / float64(out.TotalFeatures) * 100
	}

	out.AgreementLevel = classify(out.ConsensusPercentage / 100)
	out.Conflicts = detectConflicts(votes)
	out.CrossCategoryAgreement = crossCategoryAgreement(votes)

	return out
}

func classify(pct float64) AgreementLevel {
	switch {
	case pct >= StrongConsensusAt:
		return StrongConsensus
	case pct >= ModerateConsensusAt:
		return ModerateConsensus
	case pct >= WeakConsensusAt:
		return WeakConsensus
	}
	return NoConsensus
}

func detectConflicts(votes map[feature.Category]CategoryVotes) []string {
	var conflicts []string
	for _, pair := range conflictPairs {
		v1, v2 := votes[pair[0]], votes[pair[1]]
		if v1.Total() == 0 || v2.Total() == 0 {
			continue
		}
		d1, d2 := v1.Direction(), v2.Direction()
		opposed := (d1 == DirectionBullish && d2 == DirectionBearish) ||
			(d1 == DirectionBearish && d2 == DirectionBullish)
		if !opposed {
			continue
		}
		if v1.Strength() >= significantConflictAt && v2.Strength() >= significantConflictAt {
			conflicts = append(conflicts, fmt.Sprintf(
				"%s %s (%.0f%% agreement) but %s %s (%.0f%% agreement)",
				pair[0], strings.ToLower(string(d1)), v1.Strength()*100,
				pair[1], strings.ToLower(string(d2)), v2.Strength()*100,
			))
		}
	}
	return conflicts
}

// crossCategoryAgreement is the share of active category pairs pointing
// the same way. A single active category counts as perfect agreement.
func crossCategoryAgreement(votes map[feature.Category]CategoryVotes) float64 {
	var active []CategoryVotes
	for _, v := range votes {
		if v.Total() > 0 {
			active = append(active, v)
		}
	}
	if len(active) < 2 {
		return 1.0
	}

	agreements, comparisons := 0, 0
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			comparisons++
			if active[i].Direction() == active[j].Direction() {
				agreements++
			}
		}
	}
	if comparisons == 0 {
		return 1.0
	}
	return float64(agreements) / float64(comparisons)
}

// AdjustConfidence scales a base confidence by the consensus read and
// returns the clamped result with an explanation of each adjustment.
func (e *Engine) AdjustConfidence(base float64, c *Result) (float64, string) {
	factor := 1.0
	var parts []string

	switch c.AgreementLevel {
	case StrongConsensus:
		factor *= 1.15
		parts = append(parts, fmt.Sprintf("Strong consensus (%.0f%%)", c.ConsensusPercentage))
	case ModerateConsensus:
		factor *= 1.05
		parts = append(parts, fmt.Sprintf("Moderate consensus (%.0f%%)", c.ConsensusPercentage))
	case WeakConsensus:
		factor *= 0.95
		parts = append(parts, fmt.Sprintf("Weak consensus (%.0f%%)", c.ConsensusPercentage))
	default:
		factor *= 0.80
		parts = append(parts, fmt.Sprintf("No consensus (%.0f%%)", c.ConsensusPercentage))
	}

	if n := len(c.Conflicts); n > 0 {
		factor *= 1.0 - 0.10*float64(n)
		parts = append(parts, fmt.Sprintf("%d conflict(s) detected", n))
	}

	switch {
	case c.CrossCategoryAgreement >= 0.8:
		factor *= 1.10
		parts = append(parts, fmt.Sprintf("High cross-category agreement (%.0f%%)", c.CrossCategoryAgreement*100))
	case c.CrossCategoryAgreement <= 0.4:
		factor *= 0.90
		parts = append(parts, fmt.Sprintf("Low cross-category agreement (%.0f%%)", c.CrossCategoryAgreement*100))
	}

	adjusted := base * factor
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 100 {
		adjusted = 100
	}
	return adjusted, strings.Join(parts, " | ")
}

// GateConfig tunes ShouldFire.
type GateConfig struct {
	MinConsensusPct float64 `yaml:"min_consensus_pct" default:"60" validate:"gte=0,lte=100"`
	AllowConflicts  bool    `yaml:"allow_conflicts" default:"false"`
	MinFeatures     int     `yaml:"min_features" default:"5" validate:"gte=1"`
}

// DefaultGateConfig returns the standard firing criteria.
func DefaultGateConfig() GateConfig {
	return GateConfig{MinConsensusPct: 60, MinFeatures: 5}
}

// ShouldFire applies the firing gates: minimum consensus, no unresolved
// conflicts unless allowed, and a minimum feature count. The returned
// reason names the first failed gate, or confirms the criteria were met.
func (e *Engine) ShouldFire(c *Result, cfg GateConfig) (bool, string) {
	if c.ConsensusPercentage < cfg.MinConsensusPct {
		return false, fmt.Sprintf("Consensus %.0f%% below threshold %.0f%%", c.ConsensusPercentage, cfg.MinConsensusPct)
	}
	if !cfg.AllowConflicts && len(c.Conflicts) > 0 {
		return false, fmt.Sprintf("Conflicts detected: %s", strings.Join(c.Conflicts, "; "))
	}
	if c.TotalFeatures < cfg.MinFeatures {
		return false, fmt.Sprintf("Insufficient features (%d < %d required)", c.TotalFeatures, cfg.MinFeatures)
	}
	return true, fmt.Sprintf("Consensus criteria met (%.0f%%)", c.ConsensusPercentage)
}

// Summary renders a one-paragraph human-readable consensus digest.
func (e *Engine) Summary(c *Result) string {
	direction := "neutral"
	switch {
	case c.BullCount > c.BearCount:
		direction = "bullish"
	case c.BearCount > c.BullCount:
		direction = "bearish"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf(
		"%s %s (%.0f%%): %d bull, %d bear, %d neutral",
		titleCase(string(c.AgreementLevel)), direction, c.ConsensusPercentage,
		c.BullCount, c.BearCount, c.NeutralCount,
	))

	var catDirs []string
	for _, cat := range sortedCategories(c.CategoryVotes) {
		if v := c.CategoryVotes[cat]; v.Total() > 0 {
			catDirs = append(catDirs, fmt.Sprintf("%s %s", cat, strings.ToLower(string(v.Direction()))))
		}
	}
	if len(catDirs) > 0 {
		parts = append(parts, "Categories: "+strings.Join(catDirs, ", "))
	}

	if len(c.Conflicts) > 0 {
		parts = append(parts, "Conflicts: "+strings.Join(c.Conflicts, "; "))
	} else {
		parts = append(parts, "No conflicts detected")
	}

	return strings.Join(parts, ". ")
}

func sortedCategories(votes map[feature.Category]CategoryVotes) []feature.Category {
	cats := make([]feature.Category, 0, len(votes))
	for cat := range votes {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func titleCase(s string) string {
	words := strings.Split(strings.ToLower(strings.ReplaceAll(s, "_", " ")), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
