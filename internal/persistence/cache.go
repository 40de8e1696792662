package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/marketoracle/oracle/internal/config"
	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/market"
)

// DecisionCache keeps the most recent decision per (symbol, timeframe)
// hot so the HTTP layer can answer without re-evaluating.
type DecisionCache interface {
	Get(ctx context.Context, symbol string, tf market.Timeframe) (*decision.Output, bool)
	Set(ctx context.Context, out *decision.Output)
}

func cacheKey(symbol string, tf market.Timeframe) string {
	return fmt.Sprintf("oracle:decision:%s:%s", symbol, tf)
}

// NewCache returns a Redis-backed cache when an address is configured,
// an in-process cache otherwise.
func NewCache(cfg config.Cache) DecisionCache {
	if cfg.Addr == "" {
		return newMemoryCache(cfg.TTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisCache{client: client, ttl: cfg.TTL}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, symbol string, tf market.Timeframe) (*decision.Output, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, cacheKey(symbol, tf)).Bytes()
	if err != nil {
		return nil, false
	}
	var out decision.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *redisCache) Set(ctx context.Context, out *decision.Output) {
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, cacheKey(out.Symbol, out.Timeframe), raw, c.ttl).Err()
}

type memoryCache struct {
	mu  sync.Mutex
	m   map[string]memoryEntry
	ttl time.Duration
}

type memoryEntry struct {
	out *decision.Output
	exp time.Time
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	return &memoryCache{m: make(map[string]memoryEntry), ttl: ttl}
}

func (c *memoryCache) Get(_ context.Context, symbol string, tf market.Timeframe) (*decision.Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[cacheKey(symbol, tf)]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		return nil, false
	}
	return e.out, true
}

func (c *memoryCache) Set(_ context.Context, out *decision.Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{out: out}
	if c.ttl > 0 {
		e.exp = time.Now().Add(c.ttl)
	}
	c.m[cacheKey(out.Symbol, out.Timeframe)] = e
}
