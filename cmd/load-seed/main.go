package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gamehub/internal/config"
	"gamehub/internal/db"
	"gamehub/internal/logging"
	"gamehub/internal/seed"
)

type options struct {
	kind  string
	file  string
	dir   string
	batch int
}

func main() {
	var opts options
	flag.StringVar(&opts.kind, "kind", "all", "users, levels, achievements, user-achievements, items or all")
	flag.StringVar(&opts.file, "file", "", "csv file for a single kind")
	flag.StringVar(&opts.dir, "dir", "seed", "directory holding <kind>.csv files when -kind=all")
	flag.IntVar(&opts.batch, "batch", 500, "rows per insert statement")
	flag.Parse()

	envErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logging.Warn(logger, "failed to load .env", "error", envErr)
	}
	if err := run(cfg, logger, opts); err != nil {
		logging.Error(logger, "seed load failed", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, opts options) error {
	conn, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := seed.NewLoader(conn, logger, seed.WithBatchSize(opts.batch))
	return load(ctx, loader, opts.kind, opts.file, opts.dir)
}

func load(ctx context.Context, loader *seed.Loader, kindFlag, filePath, dir string) error {
	if kindFlag == "all" {
		if filePath != "" {
			return errors.New("-file cannot be combined with -kind=all; use -dir")
		}
		_, err := loader.LoadDir(ctx, dir)
		return err
	}
	kind, err := seed.ParseKind(kindFlag)
	if err != nil {
		return err
	}
	if filePath == "" {
		filePath = filepath.Join(dir, kind.FileName())
	}
	_, err = loader.LoadFile(ctx, kind, filePath)
	return err
}
