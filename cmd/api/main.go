package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegomanaglia/simply-crm/internal/api"
	"github.com/diegomanaglia/simply-crm/internal/config"
	"github.com/diegomanaglia/simply-crm/internal/database"
	"github.com/diegomanaglia/simply-crm/internal/dispatch"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting SimplyCRM webhooks API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	webhookRepo := repository.NewWebhookRepository(pool)
	webhookLogRepo := repository.NewWebhookLogRepository(pool)

	// Event bus and dispatcher
	bus := dispatch.NewBus(cfg.DispatchQueueSize, logger)
	dispatcher := dispatch.NewDispatcher(webhookRepo, webhookLogRepo, dispatch.DispatcherConfig{
		Timeout:     cfg.WebhookTimeout,
		FailCeiling: cfg.WebhookMaxFails,
		Backoff:     dispatch.NewBackoff(cfg.RetryBaseDelay, cfg.RetryMaxDelay),
	}, logger)

	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	defer cancelDispatch()

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(dispatchCtx, bus)
	}()

	// Retry worker
	worker := dispatch.NewWorker(webhookRepo, webhookLogRepo, dispatcher, cfg.WorkerPollEvery, logger)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(dispatchCtx)
	}()

	// HTTP router
	router := api.NewRouter(logger, &api.Dependencies{
		Config:     cfg,
		DB:         pool,
		Bus:        bus,
		Dispatcher: dispatcher,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	// No more publishers once the server is down; closing the bus lets
	// the dispatcher drain and exit.
	bus.Close()
	worker.Stop()

	shutdownTimer := time.NewTimer(10 * time.Second)
	defer shutdownTimer.Stop()

	for _, done := range []<-chan struct{}{dispatcherDone, workerDone} {
		select {
		case <-done:
		case <-shutdownTimer.C:
			logger.Warn("timed out waiting for background workers")
			cancelDispatch()
		}
	}

	logger.Info("server stopped")

	return nil
}
