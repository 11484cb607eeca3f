package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/infrastructure/config"
	"insightmap-backend/infrastructure/di"
)

// The sweeper runs the typing-indicator cleanup as a standalone process
// for deployments where the API runs on Lambda and has no resident
// background loop.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	container.Logger.Info("Starting typing sweeper",
		zap.Duration("period", cfg.TypingSweepPeriod),
		zap.Duration("cutoff", container.DomainConfig.TypingSweepCutoff),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TypingSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			container.Logger.Info("Sweeper stopping")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-container.DomainConfig.TypingSweepCutoff)
			removed, err := container.TypingStore.Sweep(ctx, cutoff)
			if err != nil {
				container.Logger.Warn("Typing sweep failed", zap.Error(err))
				continue
			}
			container.Logger.Debug("Sweep pass complete", zap.Int("removed", removed))
		}
	}
}
