package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gamehub/internal/config"
	"gamehub/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var errUnknownDirection = errors.New("unknown migration direction")

type options struct {
	direction string
	steps     int
	source    string
}

// migrator is the part of *migrate.Migrate that apply drives.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
}

func main() {
	var opts options
	flag.StringVar(&opts.direction, "direction", "up", "up, down or steps")
	flag.IntVar(&opts.steps, "steps", 0, "number of migrations to apply when -direction=steps (negative rolls back)")
	flag.StringVar(&opts.source, "source", "file://db/migrations", "migration source url")
	flag.Parse()

	envErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logging.Warn(logger, "failed to load .env", "error", envErr)
	}
	if err := run(cfg, logger, opts); err != nil {
		logging.Error(logger, "database migration failed", err, "direction", opts.direction)
		if errors.Is(err, errUnknownDirection) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, opts options) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	m, err := migrate.New(opts.source, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	defer m.Close()

	if err := apply(m, opts.direction, opts.steps); err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading migration version: %w", err)
	}
	logging.Info(logger, "database migrations applied", "direction", opts.direction, "version", version, "dirty", dirty)
	return nil
}

// apply runs one migration command. Having nothing to migrate is not an
// error.
func apply(m migrator, direction string, steps int) error {
	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(steps)
	default:
		return fmt.Errorf("%w %q", errUnknownDirection, direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
