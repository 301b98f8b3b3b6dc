package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"l2scope/internal/config"
	"l2scope/internal/defillama"
	"l2scope/internal/dune"
	"l2scope/internal/gas"
	"l2scope/internal/metrics"
	"l2scope/internal/model"
	"l2scope/internal/server"
	"l2scope/internal/storage"
	"l2scope/internal/storage/postgres"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("serve start",
		zap.String("listen", cfg.ListenAddr),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("gas_ttl", cfg.GasTTL),
	)

	return server.New(svc, logger).Run(ctx, cfg.ListenAddr)
}

func buildService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*metrics.Service, func(), error) {
	duneClient, err := dune.NewClient(cfg.DuneBaseURL, cfg.DuneAPIKey, cfg.PollInterval)
	if err != nil {
		return nil, nil, err
	}

	sources := make(map[model.Network]model.QuerySource, len(model.Networks()))
	for _, network := range model.Networks() {
		source, err := model.ResolveQuerySource(cfg.QueryID(network), network.ActivitySQL())
		if err != nil {
			return nil, nil, err
		}
		if _, saved := source.SavedQueryID(); !saved {
			logger.Warn("no saved query ID set, raw SQL needs a paid Dune plan",
				zap.String("network", string(network)),
				zap.String("env", network.QueryIDEnv()),
			)
		}
		sources[network] = source
	}

	archive, cleanup, err := buildArchive(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := metrics.NewService(
		metrics.Config{
			CacheTTL: cfg.CacheTTL,
			GasTTL:   cfg.GasTTL,
			Sources:  sources,
		},
		defillama.NewClient(cfg.LlamaBaseURL),
		duneClient,
		gas.NewProber(cfg.RPCURLs()),
		archive,
		logger,
	)
	return svc, cleanup, nil
}

func buildArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Archive, func(), error) {
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("archiving fetched series", zap.String("sink", "postgres"), zap.String("pg_dsn", redactDSN(cfg.PGDSN)))
		return store, store.Close, nil
	}
	if cfg.ArchiveOut != "" {
		logger.Info("archiving fetched series", zap.String("sink", "jsonl"), zap.String("out", cfg.ArchiveOut))
		return storage.NewJsonlArchive(cfg.ArchiveOut), func() {}, nil
	}
	return nil, func() {}, nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
