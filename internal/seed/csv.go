package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// RowError points at the CSV line and column a value could not be read from.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var errRequired = errors.New("value is required")

type table struct {
	columns map[string]int
	records []record
}

type record struct {
	line   int
	fields []string
	cols   map[string]int
}

// readTable reads a CSV with a header row. Column names are matched
// case-insensitively and blank lines are skipped.
func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &table{columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name != "" {
			columns[name] = i
		}
	}

	t := &table{columns: columns}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		t.records = append(t.records, record{line: line, fields: fields, cols: columns})
	}
	return t, nil
}

func (t *table) require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func isBlank(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func (r record) text(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r record) required(col string) (string, error) {
	value := r.text(col)
	if value == "" {
		return "", r.fail(col, errRequired)
	}
	return value, nil
}

func (r record) integer(col string, fallback int) (int, error) {
	raw := r.text(col)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, r.fail(col, fmt.Errorf("invalid integer %q", raw))
	}
	return value, nil
}

func (r record) requiredInteger(col string) (int, error) {
	if r.text(col) == "" {
		return 0, r.fail(col, errRequired)
	}
	return r.integer(col, 0)
}

// id reads an optional positive identifier; blank means "let the database
// assign one".
func (r record) id(col string) (uint, error) {
	raw := r.text(col)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, r.fail(col, fmt.Errorf("invalid id %q", raw))
	}
	return uint(value), nil
}

func (r record) requiredID(col string) (uint, error) {
	if r.text(col) == "" {
		return 0, r.fail(col, errRequired)
	}
	return r.id(col)
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func (r record) timestamp(col string, fallback time.Time) (time.Time, error) {
	raw := r.text(col)
	if raw == "" {
		return fallback, nil
	}
	for _, layout := range timeLayouts {
		if value, err := time.Parse(layout, raw); err == nil {
			return value.UTC(), nil
		}
	}
	return time.Time{}, r.fail(col, fmt.Errorf("invalid timestamp %q", raw))
}

func (r record) fail(col string, err error) error {
	return &RowError{Line: r.line, Column: col, Err: err}
}
