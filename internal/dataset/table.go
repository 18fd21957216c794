//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is wrapped by the ParseError returned from Column.
var ErrMissingColumn = errors.New("column not present in header")

// Table is an in-memory tabular file: a header plus string rows.
// Every row has exactly len(Header) fields.
type Table struct {
	// Name is the logical name (orders, items, ...).
	Name string

	// Header holds the column names in file order.
	Header []string

	// Rows holds the data rows in file order.
	Rows [][]string

	index map[string]int
}

// NewTable builds a table and its column index. Rows shorter or longer than
// the header are rejected.
func NewTable(name string, header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		if _, dup := index[col]; dup {
			return nil, &ParseError{Table: name, Column: col,
				Err: errors.New("duplicate column in header")}
		}
		index[col] = i
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, &ParseError{Table: name, Row: i + 1,
				Err: fmt.Errorf("expected %d fields, got %d", len(header), len(row))}
		}
	}
	return &Table{Name: name, Header: header, Rows: rows, index: index}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, &ParseError{Table: t.Name, Column: name, Err: ErrMissingColumn}
	}
	return i, nil
}

// Columns resolves several column names at once, failing on the first
// missing one.
func (t *Table) Columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}
	return idx, nil
}
