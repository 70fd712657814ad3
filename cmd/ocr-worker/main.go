package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/config"
	"github.com/Remedy92/Culi-sub000/internal/db"
	"github.com/Remedy92/Culi-sub000/internal/menu"
	"github.com/Remedy92/Culi-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load("DATABASE_URL", "GEMINI_API_KEY")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("extraction worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, logger.Named("db"))
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pool.Close()

	components, err := worker.NewFromConfig(ctx, cfg, menu.NewPostgresRepository(pool), logger)
	if err != nil {
		logger.Fatal("worker init failed", zap.Error(err))
	}
	defer components.Close()

	// Process menu uploads until interrupted
	worker.NewRunner(components.Service, cfg.WorkerInterval, logger.Named("runner")).Run(ctx)
}
