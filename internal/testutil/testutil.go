// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lms/internal/config"
	"lms/internal/logging"
	"lms/internal/provision"
	"lms/internal/store"
)

// SQLiteGateway opens a migrated SQLite database in a temp dir. The
// gateway is closed when the test ends.
func SQLiteGateway(t *testing.T) *store.Gateway {
	t.Helper()

	return open(t, sqliteConfig(t))
}

func sqliteConfig(t *testing.T) config.DBConfig {
	return config.DBConfig{
		Driver:         config.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "lms.db"),
		ConnectTimeout: 5 * time.Second,
		QueryTimeout:   5 * time.Second,
	}
}

// SeededSQLiteGateway is SQLiteGateway with the sample rows loaded.
func SeededSQLiteGateway(t *testing.T) *store.Gateway {
	t.Helper()

	g := SQLiteGateway(t)
	_, err := provision.Seed(context.Background(), g)
	require.NoError(t, err)
	return g
}

// SeededSQLiteFile prepares a migrated and seeded SQLite file and returns
// its path, for tests that open the store themselves.
func SeededSQLiteFile(t *testing.T) string {
	t.Helper()

	cfg := sqliteConfig(t)
	g := open(t, cfg)
	_, err := provision.Seed(context.Background(), g)
	require.NoError(t, err)
	g.Close()
	return cfg.Path
}

// PostgresGateway connects to the database named by LMS_TEST_DB_* variables
// (defaults: localhost:5432, lms_test, postgres/postgres), migrates it and
// empties the catalog tables. The test is skipped when no server answers.
func PostgresGateway(t *testing.T) *store.Gateway {
	t.Helper()

	port, _ := strconv.Atoi(getEnv("LMS_TEST_DB_PORT", "5432"))
	cfg := config.DBConfig{
		Driver:         config.DriverPGX,
		Host:           getEnv("LMS_TEST_DB_HOST", "localhost"),
		Name:           getEnv("LMS_TEST_DB_NAME", "lms_test"),
		User:           getEnv("LMS_TEST_DB_USER", "postgres"),
		Password:       getEnv("LMS_TEST_DB_PASSWORD", "postgres"),
		Port:           port,
		SSLMode:        "disable",
		ConnectTimeout: 2 * time.Second,
		QueryTimeout:   5 * time.Second,
	}

	ctx := context.Background()
	if _, err := provision.EnsureDatabase(ctx, cfg, logging.Discard()); err != nil {
		t.Skipf("Skipping test: cannot reach test database: %v", err)
	}
	g, err := store.Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(g.Close)

	require.NoError(t, provision.Migrate(ctx, g, provision.CommandUp))
	_, err = g.DB().ExecContext(ctx, `TRUNCATE books, librarians`)
	require.NoError(t, err)
	return g
}

func open(t *testing.T, cfg config.DBConfig) *store.Gateway {
	t.Helper()

	ctx := context.Background()
	g, err := store.Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(g.Close)

	require.NoError(t, provision.Migrate(ctx, g, provision.CommandUp))
	return g
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
