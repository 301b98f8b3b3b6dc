package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"l2scope/internal/config"
	"l2scope/internal/model"
)

func runFetch(cmd *cobra.Command, _ []string) error {
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

	networks := model.Networks()
	if name, _ := cmd.Flags().GetString("network"); name != "" {
		network, err := model.ParseNetwork(name)
		if err != nil {
			return err
		}
		networks = []model.Network{network}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	failed := 0
	for _, network := range networks {
		snapshots, err := svc.Snapshots(ctx, network)
		if err != nil {
			logger.Error("fetch failed", zap.String("network", string(network)), zap.Error(err))
			failed++
			continue
		}

		logger.Info("fetch complete", zap.String("network", string(network)), zap.Int("days", len(snapshots)))
		if err := encoder.Encode(map[string]any{
			"network":   network,
			"snapshots": snapshots,
		}); err != nil {
			return err
		}
	}

	if failed == len(networks) {
		return fmt.Errorf("all fetches failed")
	}
	return nil
}
