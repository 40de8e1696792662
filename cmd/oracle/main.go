package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marketoracle/oracle/internal/config"
	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/feature"
)

const (
	appName = "oracle"
	version = "v1.0.0"
)

var (
	flagConfig   string
	flagLogLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Multi-factor signal scoring and trade decisions for gold and crypto markets",
		Version: version,
		Long: `oracle scores 30+ technical, macro, derivative, intermarket and
sentiment features into a weighted composite, applies regime-aware rule
filters and consensus gating, and emits graded trade signals with
entry, stop and target levels.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBacktestCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newFeaturesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and prepares the logger shared by every command.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	var log zerolog.Logger
	if cfg.Log.Pretty || term.IsTerminal(int(os.Stderr.Fd())) {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	log = log.Level(parsed).With().Timestamp().Logger()

	return cfg, log, nil
}

func buildEngine(cfg *config.Config, log zerolog.Logger) *decision.Engine {
	dcfg := decision.Config{
		Rules:            cfg.Rules,
		Gate:             cfg.Gate,
		EnforceConsensus: cfg.Decision.EnforceConsensus,
		TopDriverCount:   cfg.Decision.TopDriverCount,
		WeightOverrides:  cfg.Decision.WeightOverrides,
	}
	return decision.NewEngine(feature.DefaultRegistry(), dcfg, log)
}
