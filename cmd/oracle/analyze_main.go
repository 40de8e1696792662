package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketoracle/oracle/internal/data"
	"github.com/marketoracle/oracle/internal/decision"
	"github.com/marketoracle/oracle/internal/feature"
	"github.com/marketoracle/oracle/internal/market"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		symbol     string
		marketType string
		timeframe  string
		candles    string
		contextTo  string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate one snapshot and print the decision",
		Long:  "Loads candles (CSV) plus optional context (JSON), runs the full scoring pipeline once, and prints the decision.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			series, err := data.LoadCandlesCSV(candles)
			if err != nil {
				return err
			}
			var ctx *market.Context
			if contextTo != "" {
				if ctx, err = data.LoadContextJSON(contextTo); err != nil {
					return err
				}
			}

			engine := buildEngine(cfg, log)
			out := engine.Evaluate(feature.Input{
				Series:     series,
				Symbol:     symbol,
				Timeframe:  market.Timeframe(timeframe),
				MarketType: market.MarketType(strings.ToUpper(marketType)),
				Context:    ctx,
			})

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "text":
				printDecision(out)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (json|text)", format)
			}
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Instrument symbol, e.g. XAUUSD or BTCUSDT")
	cmd.Flags().StringVar(&marketType, "market", "SPOT", "Market type (SPOT|PERPETUAL|FUTURES)")
	cmd.Flags().StringVar(&timeframe, "timeframe", "1h", "Timeframe (15m|1h|4h|1d|1w)")
	cmd.Flags().StringVar(&candles, "candles", "", "Path to OHLCV CSV file")
	cmd.Flags().StringVar(&contextTo, "context", "", "Path to market context JSON file")
	cmd.Flags().StringVar(&format, "output", "text", "Output format (json|text)")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("candles")

	return cmd
}

func printDecision(out *decision.Output) {
	fmt.Printf("%s %s %s\n", out.Symbol, out.MarketType, out.Timeframe)
	fmt.Printf("  Signal:       %s (%s)\n", out.Signal, out.Bias)
	fmt.Printf("  Confidence:   %d%%\n", out.Confidence)
	fmt.Printf("  Score:        raw %.2f, adjusted %.2f\n", out.RawScore, out.AdjustedScore)
	fmt.Printf("  Regime:       %s trend, %s volatility\n", out.Regime.Trend, out.Regime.Volatility)
	fmt.Printf("  Consensus:    %s\n", out.Consensus.Summary)
	fmt.Printf("  Quality:      %.0f/100\n", out.Quality.QualityScore)

	if out.Trade != nil {
		fmt.Printf("  Entry:        %s\n", out.Trade.Entry)
		fmt.Printf("  Stop loss:    %s\n", out.Trade.StopLoss)
		fmt.Printf("  Take profit:  %s (R:R %s)\n", out.Trade.TakeProfit, out.Trade.RiskReward)
	}

	if len(out.TopDrivers) > 0 {
		fmt.Println("  Top drivers:")
		for _, d := range out.TopDrivers {
			fmt.Printf("    %-18s %+.2f  %s\n", d.Name, d.Value, d.Explanation)
		}
	}
	for _, w := range out.Quality.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	for _, inv := range out.InvalidationConditions {
		fmt.Printf("  Invalidation: %s\n", inv)
	}
}
