package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gamehub/internal/logging"
)

var namePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func main() {
	name := flag.String("name", "", "migration name, lowercase with underscores")
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()

	logger := logging.New(os.Stderr, "info", "text")
	up, down, err := create(*dir, *name)
	if err != nil {
		logging.Error(logger, "create migration failed", err)
		os.Exit(1)
	}
	logger.Info("migration created", slog.String("up", up), slog.String("down", down))
}

// create writes an empty up/down pair numbered one past the highest
// existing migration in dir.
func create(dir, name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("migration name is required")
	}
	if !namePattern.MatchString(name) {
		return "", "", fmt.Errorf("migration name %q must be lowercase letters, digits or underscores", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create migrations dir: %w", err)
	}
	next, err := nextVersion(dir)
	if err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%06d_%s", next, name)
	upPath := filepath.Join(dir, base+".up.sql")
	downPath := filepath.Join(dir, base+".down.sql")
	if err := writeNew(upPath, fmt.Sprintf("-- %s (up)\n", name)); err != nil {
		return "", "", err
	}
	if err := writeNew(downPath, fmt.Sprintf("-- %s (down)\n", name)); err != nil {
		return "", "", err
	}
	return upPath, downPath, nil
}

func nextVersion(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var versions []int
	for _, entry := range entries {
		prefix, _, ok := strings.Cut(entry.Name(), "_")
		if !ok || entry.IsDir() {
			continue
		}
		if v, err := strconv.Atoi(prefix); err == nil {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return 1, nil
	}
	sort.Ints(versions)
	return versions[len(versions)-1] + 1, nil
}

func writeNew(path, content string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
