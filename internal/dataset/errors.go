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
	"fmt"
	"io/fs"
)

// MissingFileError reports that a table's source file (or database table)
// does not exist.
type MissingFileError struct {
	// Name is the logical table name.
	Name string

	// Path is the file path or table identifier that was looked up.
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing %s table: %s not found", e.Name, e.Path)
}

// Unwrap lets callers test with errors.Is(err, fs.ErrNotExist).
func (e *MissingFileError) Unwrap() error {
	return fs.ErrNotExist
}

// ParseError reports a table or field that could not be parsed.
// Row is 1-based over data rows; zero means the error is not tied to a row.
type ParseError struct {
	Table  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("parse %s row %d column %s (%q): %v",
			e.Table, e.Row, e.Column, e.Value, e.Err)
	case e.Column != "":
		return fmt.Sprintf("parse %s column %s: %v", e.Table, e.Column, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.Table, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
