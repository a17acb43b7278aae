package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/game-tracker/internal/app"
	"github.com/riskibarqy/game-tracker/internal/config"
	"github.com/riskibarqy/game-tracker/internal/observability"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, drainLogs, err := observability.InitBetterStackLogger(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("init betterstack: %w", err)
	}
	logging.SetDefault(logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = drainLogs(ctx)
		_ = logger.Sync()
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() { _ = stopProfiler() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("app stopped with error", "error", err)
		return err
	}
	logger.Info("app stopped")
	return nil
}
