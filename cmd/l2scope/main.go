package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"l2scope/internal/model"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "l2scope",
		Short:        "Arbitrum vs Optimism metrics backend",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart data API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	addFetchFlags(serveCmd)

	root.AddCommand(serveCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the merged series once and print them",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("network", "", "single network to fetch (arbitrum or optimism), default both")
	addFetchFlags(fetchCmd)

	root.AddCommand(fetchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("dune-api-key", "", "Dune Analytics API key")
	cmd.Flags().String("dune-base-url", "", "Dune API base URL override")
	cmd.Flags().String("llama-base-url", "", "DefiLlama API base URL override")
	cmd.Flags().String("arbitrum-query-id", "", "saved Dune query ID for Arbitrum (free tier)")
	cmd.Flags().String("optimism-query-id", "", "saved Dune query ID for Optimism (free tier)")
	cmd.Flags().String("arbitrum-rpc", model.NetworkArbitrum.DefaultRPCURL(), "Arbitrum RPC URL for the gas probe")
	cmd.Flags().String("optimism-rpc", model.NetworkOptimism.DefaultRPCURL(), "Optimism RPC URL for the gas probe")
	cmd.Flags().Duration("cache-ttl", 3600*time.Second, "metric cache TTL")
	cmd.Flags().Duration("gas-ttl", 60*time.Second, "gas price cache TTL")
	cmd.Flags().Duration("poll-interval", time.Second, "Dune execution poll interval")
	cmd.Flags().String("archive-out", "", "JSONL archive path for fetched series")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for archiving fetched series")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
