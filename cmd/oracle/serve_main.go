package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/marketoracle/oracle/internal/metrics"
	"github.com/marketoracle/oracle/internal/persistence"
	"github.com/marketoracle/oracle/internal/persistence/postgres"
	"github.com/marketoracle/oracle/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and decision stream",
		Long:  "Serves on-demand evaluation, stored-decision queries, Prometheus metrics, and a WebSocket feed of fresh decisions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			set := metrics.New(reg)

			var store persistence.DecisionStore
			if cfg.Store.DSN != "" {
				store, err = postgres.Open(cfg.Store)
				if err != nil {
					return err
				}
				defer store.Close()
				log.Info().Msg("postgres decision store connected")
			} else {
				log.Warn().Msg("no store DSN configured, decisions will not persist")
			}

			cache := persistence.NewCache(cfg.Cache)
			engine := buildEngine(cfg, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg.Server, engine, store, cache, set, reg, log)
			return srv.Run(ctx)
		},
	}
}
