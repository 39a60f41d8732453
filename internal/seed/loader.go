// Package seed bulk-loads catalog data (users, levels, achievements, items)
// from CSV files.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gamehub/internal/db"
	"gamehub/internal/logging"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Kind string

const (
	KindUsers            Kind = "users"
	KindLevels           Kind = "levels"
	KindAchievements     Kind = "achievements"
	KindUserAchievements Kind = "user-achievements"
	KindItems            Kind = "items"
)

const defaultBatchSize = 500

// Kinds lists every importable kind in foreign-key order.
var Kinds = []Kind{KindUsers, KindLevels, KindAchievements, KindUserAchievements, KindItems}

var ErrUnknownKind = errors.New("unknown seed kind")

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, raw)
}

// FileName is the file LoadDir looks for, e.g. "user_achievements.csv".
func (k Kind) FileName() string {
	return strings.ReplaceAll(string(k), "-", "_") + ".csv"
}

func (k Kind) table() string {
	return strings.ReplaceAll(string(k), "-", "_")
}

// Result reports how many data rows a file had and how many were new.
type Result struct {
	Kind     Kind
	Rows     int
	Inserted int64
}

type Option func(*Loader)

func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithHashCost sets the bcrypt cost used for plaintext user passwords.
func WithHashCost(cost int) Option {
	return func(l *Loader) {
		l.hashCost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

type Loader struct {
	db        *gorm.DB
	logger    *slog.Logger
	batchSize int
	hashCost  int
	now       func() time.Time
}

func NewLoader(conn *gorm.DB, logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		db:        conn,
		logger:    logger,
		batchSize: defaultBatchSize,
		hashCost:  bcrypt.DefaultCost,
		now:       defaultNow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses one CSV of the given kind and inserts its rows. Rows that
// collide with an existing primary key or unique column are skipped. A
// malformed row aborts the whole file.
func (l *Loader) Load(ctx context.Context, kind Kind, r io.Reader) (Result, error) {
	result := Result{Kind: kind}
	if l.db == nil {
		return result, errors.New("db connection is nil")
	}
	t, err := readTable(r)
	if err != nil {
		return result, fmt.Errorf("%s: %w", kind, err)
	}
	result.Rows = len(t.records)

	var inserted int64
	switch kind {
	case KindUsers:
		inserted, err = insertRows(ctx, l, kind, t, l.userRows)
	case KindLevels:
		inserted, err = insertRows(ctx, l, kind, t, l.levelRows)
	case KindAchievements:
		inserted, err = insertRows(ctx, l, kind, t, l.achievementRows)
	case KindUserAchievements:
		inserted, err = insertRows(ctx, l, kind, t, l.userAchievementRows)
	case KindItems:
		inserted, err = insertRows(ctx, l, kind, t, l.itemRows)
	default:
		return result, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return result, fmt.Errorf("%s: %w", kind, err)
	}
	result.Inserted = inserted

	logging.Info(l.logger, "seed file loaded",
		logging.FieldKind, string(kind),
		logging.FieldCount, result.Rows,
		"inserted", result.Inserted,
	)
	return result, nil
}

func (l *Loader) LoadFile(ctx context.Context, kind Kind, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{Kind: kind}, err
	}
	defer file.Close()
	return l.Load(ctx, kind, file)
}

// LoadDir loads every kind whose file exists in dir, in foreign-key order.
// Missing files are skipped.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]Result, error) {
	var results []Result
	for _, kind := range Kinds {
		path := filepath.Join(dir, kind.FileName())
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logging.Warn(l.logger, "seed file missing, skipping", logging.FieldKind, string(kind), "path", path)
			continue
		}
		result, err := l.LoadFile(ctx, kind, path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func insertRows[T any](ctx context.Context, l *Loader, kind Kind, t *table, build func(*table) ([]T, error)) (int64, error) {
	rows, err := build(t)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var inserted int64
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, l.batchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		if kind == KindUserAchievements || !db.IsPostgres(tx) {
			return nil
		}
		return syncSequence(tx, kind.table())
	})
	return inserted, err
}

// syncSequence moves the serial sequence past ids that were inserted
// explicitly so later inserts do not collide with them.
func syncSequence(tx *gorm.DB, table string) error {
	return tx.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
		table, table,
	)).Error
}
