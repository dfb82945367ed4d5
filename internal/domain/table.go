package domain

import (
	"fmt"
	"strings"
)

// Cell is a single table value. Valid is false for null or absent cells.
type Cell struct {
	Value string
	Valid bool
}

// StringCell returns a valid cell holding s.
func StringCell(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// NullCell returns an absent cell.
func NullCell() Cell {
	return Cell{}
}

// Table is a column-oriented person table: column name -> column of values.
// Column order follows the source header.
type Table struct {
	columns []string
	data    map[string][]Cell
	rows    int
}

// NewTable creates an empty table with the given header.
func NewTable(columns []string) (*Table, error) {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		data:    make(map[string][]Cell, len(columns)),
	}
	for _, c := range columns {
		if _, dup := t.data[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.columns = append(t.columns, c)
		t.data[c] = nil
	}
	return t, nil
}

// TableFromRows builds a table from a header and string rows, as produced by
// spreadsheet and CSV readers. Empty or whitespace-only cells become null.
// Short rows are padded with nulls; extra trailing values are ignored.
func TableFromRows(header []string, rows [][]string) (*Table, error) {
	t, err := NewTable(header)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		cells := make([]Cell, len(header))
		for i := range header {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = StringCell(row[i])
			}
		}
		t.AppendRow(cells)
	}
	return t, nil
}

// TableFromColumns builds a table from a column map. All columns must have the
// same length. Columns are ordered by the supplied order slice; names present
// in cols but missing from order are rejected.
func TableFromColumns(order []string, cols map[string][]Cell) (*Table, error) {
	if len(order) != len(cols) {
		return nil, fmt.Errorf("column order lists %d columns, got %d", len(order), len(cols))
	}
	t, err := NewTable(order)
	if err != nil {
		return nil, err
	}
	n := -1
	for _, name := range order {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q missing from column map", name)
		}
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", name, len(col), n)
		}
		n = len(col)
		t.data[name] = append([]Cell(nil), col...)
	}
	if n > 0 {
		t.rows = n
	}
	return t, nil
}

// AppendRow adds one row in header order. Missing trailing cells are null.
func (t *Table) AppendRow(cells []Cell) {
	for i, c := range t.columns {
		var cell Cell
		if i < len(cells) {
			cell = cells[i]
		}
		t.data[c] = append(t.data[c], cell)
	}
	t.rows++
}

// Columns returns the header in source order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]Cell, bool) {
	col, ok := t.data[name]
	return col, ok
}

// Cell returns the value at row i of the named column, or a null cell when
// either is out of range.
func (t *Table) Cell(i int, column string) Cell {
	col, ok := t.data[column]
	if !ok || i < 0 || i >= len(col) {
		return Cell{}
	}
	return col[i]
}

// lookupColumn finds a column by case-insensitive, whitespace-trimmed name.
func (t *Table) lookupColumn(name string) (string, bool) {
	want := normalizeHeader(name)
	for _, c := range t.columns {
		if normalizeHeader(c) == want {
			return c, true
		}
	}
	return "", false
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}
