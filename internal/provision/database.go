package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"lms/internal/apperr"
	"lms/internal/config"
)

// EnsureDatabase creates the configured PostgreSQL database when the server
// does not have it yet. It connects through the maintenance database and
// reports whether a database was created. SQLite files need no creation.
func EnsureDatabase(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (bool, error) {
	if !cfg.IsPostgres() {
		return false, nil
	}

	conn, err := pgx.Connect(ctx, cfg.MaintenanceDSN())
	if err != nil {
		return false, apperr.Wrap(apperr.ErrConnection, err)
	}
	defer conn.Close(context.Background())

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.Name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("look up database %q: %w", cfg.Name, err)
	}
	if exists {
		return false, nil
	}

	// CREATE DATABASE takes no bind parameters.
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.Name}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database %q: %w", cfg.Name, err)
	}
	logger.Info("database created", "database", cfg.Name)
	return true, nil
}
