package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insightmap-backend/infrastructure/config"
	"insightmap-backend/infrastructure/di"
	"insightmap-backend/interfaces/http/rest"
)

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

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		cfg,
		container.Logger,
	)

	handler, err := router.Setup()
	if err != nil {
		container.Logger.Fatal("Failed to set up router", zap.Error(err))
	}

	// Reclaim typing indicators abandoned without a stop signal
	go sweepTypingIndicators(ctx, container, cfg.TypingSweepPeriod)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// sweepTypingIndicators periodically deletes typing rows whose last
// activity is older than the domain cutoff.
func sweepTypingIndicators(ctx context.Context, container *di.Container, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-container.DomainConfig.TypingSweepCutoff)
			removed, err := container.TypingStore.Sweep(ctx, cutoff)
			if err != nil {
				container.Logger.Warn("Typing sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				container.Logger.Debug("Swept stale typing indicators",
					zap.Int("removed", removed),
				)
			}
		}
	}
}
