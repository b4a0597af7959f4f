// Package dataset holds the row-oriented tables exchanged between ingestion,
// validation, the model and the exporters. Cells are kept as text exactly as
// they were read; typing happens at inference time.
package dataset

import (
	"fmt"
	"strings"
)

// Table is an ordered set of named columns over string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries column name.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Append adds a row; it must match the header width.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, append([]string(nil), row...))
	return nil
}

// AddColumn appends a column holding value in every row.
func (t *Table) AddColumn(name, value string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// AddColumnValues appends a column with one value per row.
func (t *Table) AddColumnValues(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// DropColumn removes every column called name.
func (t *Table) DropColumn(name string) {
	for idx := t.Index(name); idx >= 0; idx = t.Index(name) {
		t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
		for i, row := range t.Rows {
			t.Rows[i] = append(row[:idx], row[idx+1:]...)
		}
	}
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Cell returns the value at row i of column name.
func (t *Table) Cell(i int, name string) (string, bool) {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	return t.Rows[i][idx], true
}

// Head returns a copy holding at most n rows.
func (t *Table) Head(n int) *Table {
	out := New(t.Columns...)
	for i := 0; i < n && i < len(t.Rows); i++ {
		out.Rows = append(out.Rows, append([]string(nil), t.Rows[i]...))
	}
	return out
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	return t.Head(len(t.Rows))
}

// Records returns one column->value map per row, for JSON rendering.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[c] = row[j]
		}
		out = append(out, rec)
	}
	return out
}

// CheckColumns rejects a header that names the same column twice. Blank
// names are allowed to repeat.
func CheckColumns(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" {
			continue
		}
		if seen[c] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = true
	}
	return nil
}

// normalizeHeader trims whitespace and a UTF-8 byte order mark.
func normalizeHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
}
