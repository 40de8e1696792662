package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketoracle/oracle/internal/backtest"
	"github.com/marketoracle/oracle/internal/data"
	"github.com/marketoracle/oracle/internal/market"
)

func newBacktestCmd() *cobra.Command {
	var (
		symbol     string
		marketType string
		timeframe  string
		candles    string
		contextTo  string
		csvOut     string
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay history through the decision engine",
		Long:  "Walks the candle history bar by bar, evaluates a decision at each step, simulates every non-neutral signal forward, and reports aggregate performance.",
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

			runner := backtest.NewRunner(buildEngine(cfg, log), log)
			runner.MinHistory = cfg.Backtest.MinHistory
			runner.Step = cfg.Backtest.Step

			outcomes, metrics := runner.Run(symbol,
				market.MarketType(strings.ToUpper(marketType)),
				market.Timeframe(timeframe), series, ctx)

			if metrics == nil || metrics.TotalTrades == 0 {
				fmt.Println("no trades generated over the given history")
				return nil
			}

			backtest.WriteReport(os.Stdout, metrics)

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return fmt.Errorf("create csv output: %w", err)
				}
				defer f.Close()
				if err := backtest.ExportCSV(f, outcomes); err != nil {
					return err
				}
				fmt.Printf("\n%d trades exported to %s\n", len(outcomes), csvOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Instrument symbol")
	cmd.Flags().StringVar(&marketType, "market", "SPOT", "Market type (SPOT|PERPETUAL|FUTURES)")
	cmd.Flags().StringVar(&timeframe, "timeframe", "1h", "Timeframe (15m|1h|4h|1d|1w)")
	cmd.Flags().StringVar(&candles, "candles", "", "Path to OHLCV CSV file")
	cmd.Flags().StringVar(&contextTo, "context", "", "Path to market context JSON file")
	cmd.Flags().StringVar(&csvOut, "export-csv", "", "Write per-trade outcomes to this CSV file")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("candles")

	return cmd
}
