package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	"github.com/BruksfildServices01/mood-journal/internal/config"
	dbpkg "github.com/BruksfildServices01/mood-journal/internal/db"
	"github.com/BruksfildServices01/mood-journal/internal/logger"
	"github.com/BruksfildServices01/mood-journal/internal/routes"
)

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(zlog); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}

	rdb, err := dbpkg.NewRedisClient(ctx, cfg.RedisURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), zlog)

	r := routes.NewEngine(routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    zlog,
		Audit:  auditDispatcher,
		Redis:  rdb,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()), zap.String("access_policy", cfg.AccessPolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}

	auditDispatcher.Close()

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
