package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/auth"
	"github.com/Remedy92/Culi-sub000/internal/config"
	"github.com/Remedy92/Culi-sub000/internal/db"
	"github.com/Remedy92/Culi-sub000/internal/menu"
	"github.com/Remedy92/Culi-sub000/internal/router"
	"github.com/Remedy92/Culi-sub000/internal/worker"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load(
		"JWT_SECRET",
		"DATABASE_URL",
		"GEMINI_API_KEY",
	)
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

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DATABASE ─────────────────────────
	pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, logger.Named("db"))
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pool.Close()

	menuRepo := menu.NewPostgresRepository(pool)

	// ───────────────────────── STORAGE + WORKER ─────────────────────────
	components, err := worker.NewFromConfig(ctx, cfg, menuRepo, logger)
	if err != nil {
		logger.Fatal("worker init failed", zap.Error(err))
	}
	defer components.Close()

	// ───────────────────────── AUTH ─────────────────────────
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("auth init failed", zap.Error(err))
	}

	// ───────────────────────── HANDLERS ─────────────────────────
	menuService := menu.NewService(menuRepo, components.Objects, logger.Named("menu"))

	r := router.NewRouter(router.Deps{
		Logger:      logger.Named("http"),
		Tokens:      tokens,
		Menus:       menu.NewHandler(menuService),
		Extraction:  worker.NewHandler(components.Service, menuRepo),
		CORSOrigins: cfg.CORSOrigins,
	})

	// ───────────────────────── BACKGROUND WORKER ─────────────────────────
	go worker.NewRunner(components.Service, cfg.WorkerInterval, logger.Named("runner")).Run(ctx)

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
