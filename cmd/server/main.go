package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamehub/internal/config"
	"gamehub/internal/db"
	"gamehub/internal/gateway"
	"gamehub/internal/logging"
	"gamehub/internal/messages"
	"gamehub/internal/metrics"
	"gamehub/internal/privategames"
	"gamehub/internal/server"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	envErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if envErr != nil {
		logging.Warn(logger, "failed to load .env", "error", envErr)
	}
	if err := run(cfg, logger); err != nil {
		logging.Error(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	recorder := metrics.NewRecorder()

	conn, err := db.Open(cfg)
	switch {
	case errors.Is(err, db.ErrNoDatabaseURL):
		logging.Warn(logger, "DATABASE_URL not set; private games kept in memory and messaging disabled")
		conn = nil
	case err != nil:
		return err
	case cfg.DBAutoMigrate:
		if err := db.Migrate(conn); err != nil {
			return err
		}
		logging.Info(logger, "database auto-migrated")
	}

	alloc, err := gateway.New(cfg.Gateway, logger)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Games: privategames.NewService(newStore(conn), alloc, privategames.Options{
			Logger:        logger,
			Metrics:       recorder,
			CascadeDelete: cfg.CascadeDelete,
		}),
		DB:      conn,
		Logger:  logger,
		Metrics: recorder,
	}
	if conn != nil {
		deps.Messages = messages.NewService(conn, logger)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(cfg, deps).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info(logger, "gamehub server listening", "addr", httpServer.Addr, "gateway_mode", string(cfg.Gateway.Mode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info(logger, "shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if conn != nil {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
}

func newStore(conn *gorm.DB) privategames.Store {
	if conn == nil {
		return privategames.NewMemoryStore()
	}
	return privategames.NewGormStore(conn)
}
