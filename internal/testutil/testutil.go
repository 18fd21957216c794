//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides fixtures and helpers for tests.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
)

const (
	// DefaultTestConnString is the default connection string for tests.
	// Override with PGEDGE_TEST_CONN environment variable.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix for test databases.
	TestDBPrefix = "dashboard_test_"
)

// Headers holds the header line of each dataset file.
var Headers = func() map[string]string {
	m := make(map[string]string, len(dataset.Headers))
	for name, cols := range dataset.Headers {
		m[name] = strings.Join(cols, ",")
	}
	return m
}()

// SampleRows is a small consistent dataset: one order delivered in three
// days to city X, one reviewed product A priced 10.
func SampleRows() map[string][]string {
	return map[string][]string{
		dataset.Orders: {
			"1,c1,delivered,2024-01-01 00:00:00,,,2024-01-04 00:00:00,",
		},
		dataset.Items:       {"1,1,A,s1,,10,1.5"},
		dataset.Products:    {"A,perfumaria,10,100,1,200,10,10,10"},
		dataset.Payments:    {"1,1,credit_card,1,11.5"},
		dataset.Reviews:     {"r1,1,5,,,2024-01-05 00:00:00,"},
		dataset.Customers:   {"c1,u1,100,x,SP"},
		dataset.Sellers:     {"s1,200,y,SP"},
		dataset.Geolocation: {"100,-23.5,-46.6,X,SP"},
		dataset.Category:    {"perfumaria,perfumery"},
	}
}

// WriteDataset writes the nine dataset files to a fresh temporary directory
// and returns it. Tables missing from rows are written header-only.
func WriteDataset(t *testing.T, rows map[string][]string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range dataset.Names {
		content := Headers[name] + "\n"
		for _, r := range rows[name] {
			content += r + "\n"
		}
		WriteFile(t, dir, dataset.Filenames[name], content)
	}
	return dir
}

// WriteFile writes content to dir/name.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// LoadDataset writes rows with WriteDataset and loads them back.
func LoadDataset(t *testing.T, rows map[string][]string) *dataset.Dataset {
	t.Helper()

	d, err := dataset.LoadDir(WriteDataset(t, rows))
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	return d
}

// MustTable parses a CSV string into a table, failing the test on error.
func MustTable(t *testing.T, name, csv string) *dataset.Table {
	t.Helper()

	table, err := dataset.ParseCSV(name, []byte(csv))
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", name, err)
	}
	return table
}

// PostgresAvailable checks if PostgreSQL is available for testing.
// Returns the connection string if available, empty string otherwise.
func PostgresAvailable() string {
	connStr := os.Getenv("PGEDGE_TEST_CONN")
	if connStr == "" {
		connStr = DefaultTestConnString
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}

	return connStr
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available.
func SkipIfNoPostgres(t *testing.T) string {
	connStr := PostgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// CreateTestDB creates a uniquely named test database, drops it when the
// test passes, and returns its connection string.
func CreateTestDB(t *testing.T, baseConnStr string) string {
	t.Helper()

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	dbName := TestDBPrefix + hex.EncodeToString(randomBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", dbName)
			return
		}
		DropTestDB(t, baseConnStr, dbName)
	})

	config, err := pgxpool.ParseConfig(baseConnStr)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	// ConnString() does not reflect changes to ConnConfig.Database, so the
	// URL is rebuilt by hand.
	cc := config.ConnConfig
	if cc.Password != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cc.User, cc.Password, cc.Host, cc.Port, dbName)
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cc.User, cc.Host, cc.Port, dbName)
}

// DropTestDB drops the test database.
func DropTestDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", dbName)); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}

// ConnectTestDB connects to a test database and closes the pool on cleanup.
func ConnectTestDB(t *testing.T, connStr string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}
