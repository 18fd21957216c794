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
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-dashboard/internal/db"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

// rowNumberColumn preserves file order; it is never exposed in a Table.
const rowNumberColumn = "_row_number"

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// TableName returns the database table holding a logical table.
func TableName(prefix, name string) string {
	return prefix + name
}

// PostgresSource loads the dataset from tables written by Import.
type PostgresSource struct {
	DB     db.Querier
	Prefix string
}

// Describe implements Source.
func (s PostgresSource) Describe() string {
	return fmt.Sprintf("postgres:%s*", s.Prefix)
}

// Load implements Source.
func (s PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	if _, err := db.GetMetadataValue(ctx, s.DB, s.Prefix, "imported_at"); err != nil {
		if errors.Is(err, db.ErrNotImported) {
			return nil, fmt.Errorf("no dataset imported with prefix %q; run 'pgedge-dashboard import' first: %w",
				s.Prefix, err)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	tables := make([]*Table, 0, len(Names))
	for _, name := range Names {
		t, err := s.loadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		logging.Debug().
			Str("table", name).
			Int("rows", t.Len()).
			Msg("Loaded table from database")
		tables = append(tables, t)
	}
	return New(tables...), nil
}

func (s PostgresSource) loadTable(ctx context.Context, name string) (*Table, error) {
	ident := pgx.Identifier{TableName(s.Prefix, name)}
	rows, err := s.DB.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s",
		ident.Sanitize(), pgx.Identifier{rowNumberColumn}.Sanitize()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return nil, &MissingFileError{Name: name, Path: ident.Sanitize()}
		}
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, 0, len(fields))
	skip := -1
	for i, f := range fields {
		if f.Name == rowNumberColumn {
			skip = i
			continue
		}
		header = append(header, f.Name)
	}

	var data [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &ParseError{Table: name, Row: len(data) + 1, Err: err}
		}
		row := make([]string, 0, len(header))
		for i, v := range values {
			if i == skip {
				continue
			}
			row = append(row, textValue(v))
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return NewTable(name, header, data)
}

func textValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ImportOptions controls Import.
type ImportOptions struct {
	// Prefix is prepended to every logical table name.
	Prefix string

	// SourceDir is recorded in metadata.
	SourceDir string

	// DropExisting drops the prefixed tables before creating them.
	DropExisting bool
}

// Import copies every table of d into TEXT-only tables and records the
// import in the metadata table. Empty fields are stored as NULL.
func Import(ctx context.Context, q db.Querier, d *Dataset, opts ImportOptions) (int64, error) {
	var total int64
	for _, name := range Names {
		t, err := d.Table(name)
		if err != nil {
			return total, err
		}
		n, err := importTable(ctx, q, t, opts)
		if err != nil {
			return total, fmt.Errorf("failed to import %s: %w", name, err)
		}
		logging.Info().
			Str("table", TableName(opts.Prefix, name)).
			Int64("rows", n).
			Msg("Imported table")
		total += n
	}

	if err := db.SaveMetadata(ctx, q, opts.Prefix, opts.SourceDir, total); err != nil {
		return total, err
	}
	return total, nil
}

// ImportTx runs Import in a single transaction. With DropExisting the
// metadata of the previous import is removed in the same transaction, so a
// failure part way leaves the earlier tables and metadata in place.
func ImportTx(ctx context.Context, b db.Beginner, d *Dataset, opts ImportOptions) (int64, error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if opts.DropExisting {
		if err := db.DeleteMetadata(ctx, tx, opts.Prefix); err != nil {
			return 0, fmt.Errorf("failed to delete metadata: %w", err)
		}
	}
	total, err := Import(ctx, tx, d, opts)
	if err != nil {
		return total, err
	}
	if err := tx.Commit(ctx); err != nil {
		return total, fmt.Errorf("failed to commit import: %w", err)
	}
	return total, nil
}

func importTable(ctx context.Context, q db.Querier, t *Table, opts ImportOptions) (int64, error) {
	ident := pgx.Identifier{TableName(opts.Prefix, t.Name)}

	if opts.DropExisting {
		if _, err := q.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
			return 0, err
		}
	}
	if _, err := q.Exec(ctx, createTableSQL(ident, t.Header)); err != nil {
		return 0, err
	}

	columns := append([]string{rowNumberColumn}, t.Header...)
	return q.CopyFrom(ctx, ident, columns, pgx.CopyFromSlice(t.Len(), func(i int) ([]any, error) {
		values := make([]any, 0, len(columns))
		values = append(values, int64(i+1))
		for _, field := range t.Rows[i] {
			if field == "" {
				values = append(values, nil)
			} else {
				values = append(values, field)
			}
		}
		return values, nil
	}))
}

func createTableSQL(ident pgx.Identifier, header []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n    %s BIGINT PRIMARY KEY",
		ident.Sanitize(), pgx.Identifier{rowNumberColumn}.Sanitize())
	for _, col := range header {
		fmt.Fprintf(&b, ",\n    %s TEXT", pgx.Identifier{col}.Sanitize())
	}
	b.WriteString("\n)")
	return b.String()
}
