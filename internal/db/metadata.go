//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-dashboard/internal/logging"
	"github.com/pgEdge/pgedge-dashboard/pkg/version"
)

const metadataTable = "dashboard_metadata"

// ErrNotImported is returned when no import has been recorded for a prefix.
var ErrNotImported = errors.New("dataset has not been imported")

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS dashboard_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// MetadataKey namespaces a metadata key by table prefix, so several imports
// can share one database.
func MetadataKey(prefix, key string) string {
	return prefix + key
}

// SaveMetadata records a completed import for the given table prefix.
func SaveMetadata(ctx context.Context, q Querier, prefix, sourceDir string, rows int64) error {
	if _, err := q.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"source_dir":  sourceDir,
		"version":     version.Short(),
		"imported_at": time.Now().UTC().Format(time.RFC3339),
		"rows":        fmt.Sprintf("%d", rows),
	}

	for key, value := range metadata {
		_, err := q.Exec(ctx, `
            INSERT INTO dashboard_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, MetadataKey(prefix, key), value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("prefix", prefix).
		Str("source_dir", sourceDir).
		Int64("rows", rows).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value for a prefix.
// ErrNotImported is returned when the key (or the table) is absent.
func GetMetadataValue(ctx context.Context, q Querier, prefix, key string) (string, error) {
	exists, err := MetadataExists(ctx, q)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNotImported
	}

	var value string
	err = q.QueryRow(ctx, `
        SELECT value FROM dashboard_metadata WHERE key = $1
    `, MetadataKey(prefix, key)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotImported
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteMetadata removes every key recorded for a prefix.
func DeleteMetadata(ctx context.Context, q Querier, prefix string) error {
	exists, err := MetadataExists(ctx, q)
	if err != nil || !exists {
		return err
	}
	_, err = q.Exec(ctx, `DELETE FROM dashboard_metadata WHERE left(key, length($1)) = $1`, prefix)
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
