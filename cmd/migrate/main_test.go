package main

import (
	"errors"
	"testing"

	"gamehub/internal/config"
	"gamehub/internal/logging"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	calls []string
	steps int
	err   error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return f.err
}

func TestApplyDirections(t *testing.T) {
	for _, direction := range []string{"up", "down", "steps"} {
		m := &fakeMigrator{}
		if err := apply(m, direction, -2); err != nil {
			t.Fatalf("%s: %v", direction, err)
		}
		if len(m.calls) != 1 || m.calls[0] != direction {
			t.Fatalf("%s: unexpected calls %v", direction, m.calls)
		}
		if direction == "steps" && m.steps != -2 {
			t.Fatalf("expected steps to be passed through, got %d", m.steps)
		}
	}
}

func TestApplyIgnoresNoChange(t *testing.T) {
	if err := apply(&fakeMigrator{err: migrate.ErrNoChange}, "up", 0); err != nil {
		t.Fatalf("expected no change to succeed, got %v", err)
	}
	failure := errors.New("dirty database")
	if err := apply(&fakeMigrator{err: failure}, "down", 0); !errors.Is(err, failure) {
		t.Fatalf("expected migration error, got %v", err)
	}
}

func TestApplyUnknownDirection(t *testing.T) {
	m := &fakeMigrator{}
	if err := apply(m, "sideways", 0); !errors.Is(err, errUnknownDirection) {
		t.Fatalf("expected errUnknownDirection, got %v", err)
	}
	if len(m.calls) != 0 {
		t.Fatalf("expected no migration to run, got %v", m.calls)
	}
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	err := run(config.Default(), logging.Discard(), options{direction: "up", source: "file://db/migrations"})
	if err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}
