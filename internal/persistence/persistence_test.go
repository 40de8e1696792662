package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketoracle/oracle/internal/config"
	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/market"
	"github.com/marketoracle/oracle/internal/rules"
)

func sampleOutput() *decision.Output {
	return &decision.Output{
		Symbol:        "XAUUSD",
		MarketType:    market.Spot,
		Timeframe:     market.TF1h,
		Signal:        rules.Buy,
		Bias:          rules.BiasBullish,
		Confidence:    72,
		RawScore:      3.4,
		AdjustedScore: 2.7,
	}
}

func TestNewRecord_AssignsIdentity(t *testing.T) {
	rec, err := NewRecord(sampleOutput())
	require.NoError(t, err)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, "XAUUSD", rec.Symbol)
	assert.Equal(t, rules.Buy, rec.Signal)
	assert.Equal(t, 72, rec.Confidence)
	assert.NotEmpty(t, rec.Payload)
}

func TestRecord_OutputRoundTrip(t *testing.T) {
	out := sampleOutput()
	rec, err := NewRecord(out)
	require.NoError(t, err)

	got, err := rec.Output()
	require.NoError(t, err)
	assert.Equal(t, out.Symbol, got.Symbol)
	assert.Equal(t, out.Signal, got.Signal)
	assert.Equal(t, out.AdjustedScore, got.AdjustedScore)
}

func TestNewRecord_DistinctIDs(t *testing.T) {
	a, err := NewRecord(sampleOutput())
	require.NoError(t, err)
	b, err := NewRecord(sampleOutput())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewCache(config.Cache{TTL: time.Minute})
	ctx := context.Background()

	_, ok := c.Get(ctx, "XAUUSD", market.TF1h)
	assert.False(t, ok)

	c.Set(ctx, sampleOutput())
	got, ok := c.Get(ctx, "XAUUSD", market.TF1h)
	require.True(t, ok)
	assert.Equal(t, rules.Buy, got.Signal)

	// Different timeframe misses.
	_, ok = c.Get(ctx, "XAUUSD", market.TF4h)
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newMemoryCache(time.Millisecond)
	ctx := context.Background()
	c.Set(ctx, sampleOutput())

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(ctx, "XAUUSD", market.TF1h)
	assert.False(t, ok)
}
