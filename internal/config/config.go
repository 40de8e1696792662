// Package config loads and validates the service configuration from YAML,
// applying struct-tag defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/marketoracle/oracle/internal/consensus"
	"github.com/marketoracle/oracle/internal/rules"
)

// Config is the root configuration.
type Config struct {
	Log      Log                  `yaml:"log"`
	Rules    rules.Config         `yaml:"rules"`
	Gate     consensus.GateConfig `yaml:"gate"`
	Decision Decision             `yaml:"decision"`
	Backtest Backtest             `yaml:"backtest"`
	Server   Server               `yaml:"server"`
	Store    Store                `yaml:"store"`
	Cache    Cache                `yaml:"cache"`
}

// Log configures structured logging.
type Log struct {
	Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	// Pretty forces console formatting; by default it follows TTY
	// detection.
	Pretty bool `yaml:"pretty" default:"false"`
}

// Decision configures the evaluation pipeline around the rule layer.
type Decision struct {
	EnforceConsensus bool               `yaml:"enforce_consensus" default:"false"`
	TopDriverCount   int                `yaml:"top_driver_count" default:"5" validate:"gte=1,lte=50"`
	WeightOverrides  map[string]float64 `yaml:"weight_overrides,omitempty" validate:"omitempty,dive,gte=0"`
}

// Backtest configures historical replay.
type Backtest struct {
	MinHistory int `yaml:"min_history" default:"200" validate:"gte=50"`
	Step       int `yaml:"step" default:"1" validate:"gte=1"`
}

// Server configures the HTTP read surface.
type Server struct {
	Addr            string        `yaml:"addr" default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	RateLimit       float64       `yaml:"rate_limit" default:"20" validate:"gt=0"`
	RateBurst       int           `yaml:"rate_burst" default:"40" validate:"gte=1"`
}

// Store configures Postgres persistence. An empty DSN disables the store.
type Store struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns" default:"16" validate:"gte=1"`
	MaxIdleConns int           `yaml:"max_idle_conns" default:"4" validate:"gte=0"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" default:"30m"`
}

// Cache configures the Redis decision cache. An empty address disables it.
type Cache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" default:"0" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl" default:"5m"`
}

// Load reads, defaults, and validates a config file. A missing path
// yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Rules.Normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
