// Package persistence stores evaluated decisions. The decision core is
// deterministic and carries no identifiers; this layer assigns the UUID
// and timestamp at save time.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

// TimeRange bounds a query window.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DecisionRecord is a stored decision. Payload holds the full
// decision.Output as JSON; the flat columns exist for querying.
type DecisionRecord struct {
	ID            string            `json:"id" db:"id"`
	Symbol        string            `json:"symbol" db:"symbol"`
	MarketType    market.MarketType `json:"market_type" db:"market_type"`
	Timeframe     market.Timeframe  `json:"timeframe" db:"timeframe"`
	Signal        rules.Signal      `json:"signal" db:"signal"`
	Confidence    int               `json:"confidence" db:"confidence"`
	RawScore      float64           `json:"raw_score" db:"raw_score"`
	AdjustedScore float64           `json:"adjusted_score" db:"adjusted_score"`
	QualityScore  float64           `json:"quality_score" db:"quality_score"`
	Payload       json.RawMessage   `json:"payload" db:"payload"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// NewRecord wraps a decision output for storage, assigning its identity
// here so two evaluations of the same input stay byte-identical upstream.
func NewRecord(out *decision.Output) (*DecisionRecord, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal decision payload: %w", err)
	}
	return &DecisionRecord{
		ID:            uuid.NewString(),
		Symbol:        out.Symbol,
		MarketType:    out.MarketType,
		Timeframe:     out.Timeframe,
		Signal:        out.Signal,
		Confidence:    out.Confidence,
		RawScore:      out.RawScore,
		AdjustedScore: out.AdjustedScore,
		QualityScore:  out.Quality.QualityScore,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Output unmarshals the stored payload back into a decision output.
func (r *DecisionRecord) Output() (*decision.Output, error) {
	var out decision.Output
	if err := json.Unmarshal(r.Payload, &out); err != nil {
		return nil, fmt.Errorf("unmarshal decision payload: %w", err)
	}
	return &out, nil
}

// DecisionStore persists and queries decision records.
type DecisionStore interface {
	Save(ctx context.Context, rec *DecisionRecord) error
	ListBySymbol(ctx context.Context, symbol string, tr TimeRange, limit int) ([]DecisionRecord, error)
	Latest(ctx context.Context, symbol string, tf market.Timeframe) (*DecisionRecord, error)
	Close() error
}
