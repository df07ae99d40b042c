// Package table holds the normalized in-memory representation of
// spreadsheet data that flows through the chartkit pipeline.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an ordered set of rows sharing a single column set.
// The first fetched row of a spreadsheet becomes Columns; every row in
// Rows has exactly len(Columns) cells. Tables are built once by a data
// source and never mutated afterwards.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New builds a Table from a header and data rows, enforcing the uniform
// column invariant. Rows shorter than the header are padded with empty
// cells (spreadsheet APIs drop trailing blanks); rows wider than the
// header are an error.
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	normalized := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d has %d cells but the header has %d columns", i+1, len(row), len(columns))
		}
		r := make([]string, len(columns))
		copy(r, row)
		normalized[i] = r
	}

	return &Table{Columns: columns, Rows: normalized}, nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no data rows or no columns.
func (t *Table) IsEmpty() bool {
	return len(t.Columns) == 0 || len(t.Rows) == 0
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all cell values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found — available columns: %v", name, t.Columns)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Floats returns the named column parsed as float64 values. Parsing is
// lenient about spreadsheet formatting: currency symbols, thousands
// separators, and percent signs are stripped before conversion.
func (t *Table) Floats(name string) ([]float64, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	floats := make([]float64, len(values))
	for i, v := range values {
		f, err := ParseNumber(v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		floats[i] = f
	}
	return floats, nil
}

// IsNumeric reports whether every non-empty cell in the named column
// parses as a number. Columns with no parseable cells are not numeric.
func (t *Table) IsNumeric(name string) bool {
	values, err := t.Column(name)
	if err != nil {
		return false
	}
	seen := false
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := ParseNumber(v); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns returns the names of all numeric columns in order.
func (t *Table) NumericColumns() []string {
	var cols []string
	for _, c := range t.Columns {
		if t.IsNumeric(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// ParseNumber converts a spreadsheet cell to a float64, tolerating the
// formatting people keep in sheets: "$1,200.50", "45%", " 12 ".
func ParseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty cell is not a number")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}
