// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"fmt"
	"testing"

	"gamehub/internal/db"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database that is closed when the
// test finishes. The pool is pinned to one connection so every query sees
// the same in-memory database, and foreign keys are enforced on it.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// SeedUsers inserts users with the given ids so rows referencing them
// satisfy their foreign keys.
func SeedUsers(t testing.TB, conn *gorm.DB, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		user := db.User{
			ID:           id,
			Username:     fmt.Sprintf("user%d", id),
			Email:        fmt.Sprintf("user%d@example.com", id),
			PasswordHash: "x",
			Level:        1,
		}
		if err := conn.Create(&user).Error; err != nil {
			t.Fatalf("seed user %d: %v", id, err)
		}
	}
}
