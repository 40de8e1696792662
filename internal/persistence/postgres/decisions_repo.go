// Package postgres implements the decision store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/marketoracle/oracle/internal/config"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id             UUID PRIMARY KEY,
	symbol         TEXT NOT NULL,
	market_type    TEXT NOT NULL,
	timeframe      TEXT NOT NULL,
	signal         SMALLINT NOT NULL,
	confidence     INT NOT NULL,
	raw_score      DOUBLE PRECISION NOT NULL,
	adjusted_score DOUBLE PRECISION NOT NULL,
	quality_score  DOUBLE PRECISION NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_symbol_ts ON decisions (symbol, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_decisions_symbol_tf ON decisions (symbol, timeframe, created_at DESC);
`

const queryTimeout = 10 * time.Second

// decisionsRepo implements persistence.DecisionStore for PostgreSQL.
// All queries run through a circuit breaker so a sick database sheds
// load instead of stacking blocked callers.
type decisionsRepo struct {
	db      *sqlx.DB
	breaker *gobreaker.CircuitBreaker
}

// Open connects, pings, and prepares the schema.
func Open(cfg config.Store) (persistence.DecisionStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &decisionsRepo{db: db, breaker: newBreaker()}, nil
}

func newBreaker() *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: "postgres-decisions"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	return gobreaker.NewCircuitBreaker(st)
}

// notFoundAsNil keeps absent rows out of the breaker's failure counts:
// an empty table is not a sick database.
func notFoundAsNil(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (r *decisionsRepo) Save(ctx context.Context, rec *persistence.DecisionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.breaker.Execute(func() (interface{}, error) {
		const query = `
			INSERT INTO decisions
				(id, symbol, market_type, timeframe, signal, confidence,
				 raw_score, adjusted_score, quality_score, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := r.db.ExecContext(ctx, query,
			rec.ID, rec.Symbol, rec.MarketType, rec.Timeframe, rec.Signal,
			rec.Confidence, rec.RawScore, rec.AdjustedScore, rec.QualityScore,
			rec.Payload, rec.CreatedAt)
		return nil, err
	})
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("duplicate decision %s: %w", rec.ID, err)
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (r *decisionsRepo) ListBySymbol(ctx context.Context, symbol string, tr persistence.TimeRange, limit int) ([]persistence.DecisionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := r.breaker.Execute(func() (interface{}, error) {
		const query = `
			SELECT id, symbol, market_type, timeframe, signal, confidence,
			       raw_score, adjusted_score, quality_score, payload, created_at
			FROM decisions
			WHERE symbol = $1 AND created_at >= $2 AND created_at <= $3
			ORDER BY created_at DESC
			LIMIT $4`
		var recs []persistence.DecisionRecord
		if err := r.db.SelectContext(ctx, &recs, query, symbol, tr.From, tr.To, limit); err != nil {
			return nil, err
		}
		return recs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list decisions for %s: %w", symbol, err)
	}
	return out.([]persistence.DecisionRecord), nil
}

func (r *decisionsRepo) Latest(ctx context.Context, symbol string, tf market.Timeframe) (*persistence.DecisionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := r.breaker.Execute(func() (interface{}, error) {
		const query = `
			SELECT id, symbol, market_type, timeframe, signal, confidence,
			       raw_score, adjusted_score, quality_score, payload, created_at
			FROM decisions
			WHERE symbol = $1 AND timeframe = $2
			ORDER BY created_at DESC
			LIMIT 1`
		var rec persistence.DecisionRecord
		if err := r.db.GetContext(ctx, &rec, query, symbol, tf); err != nil {
			return (*persistence.DecisionRecord)(nil), notFoundAsNil(err)
		}
		return &rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("latest decision for %s %s: %w", symbol, tf, err)
	}
	return out.(*persistence.DecisionRecord), nil
}

func (r *decisionsRepo) Close() error { return r.db.Close() }
