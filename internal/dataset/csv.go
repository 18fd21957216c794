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
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadDir reads every table in Filenames from dir.
func LoadDir(dir string) (*Dataset, error) {
	tables := make([]*Table, 0, len(Names))
	for _, name := range Names {
		path := filepath.Join(dir, Filenames[name])
		t, err := ReadFile(name, path)
		if err != nil {
			return nil, err
		}
		logging.Debug().
			Str("table", name).
			Str("path", path).
			Int("rows", t.Len()).
			Msg("Loaded table")
		tables = append(tables, t)
	}
	return New(tables...), nil
}

// ReadFile reads a single CSV file into a table named name.
func ReadFile(name, path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Name: name, Path: path}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseCSV(name, b)
}

// ParseCSV parses comma-delimited UTF-8 text with a header row.
func ParseCSV(name string, b []byte) (*Table, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return nil, &ParseError{Table: name, Err: errors.New("input is not valid UTF-8")}
	}

	r := csv.NewReader(bytes.NewReader(b))

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Table: name, Err: errors.New("empty file, header row required")}
		}
		return nil, &ParseError{Table: name, Err: err}
	}

	rows := make([][]string, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Table: name, Row: len(rows) + 1, Err: err}
		}
		rows = append(rows, rec)
	}

	return NewTable(name, header, rows)
}

// WriteCSV writes t to path, creating parent directories as needed.
func WriteCSV(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteDir writes every table of d to dir using the names in Filenames.
func WriteDir(dir string, d *Dataset) error {
	for _, name := range Names {
		t, err := d.Table(name)
		if err != nil {
			return err
		}
		if err := WriteCSV(filepath.Join(dir, Filenames[name]), t); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
