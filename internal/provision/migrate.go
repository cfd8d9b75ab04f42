// Package provision prepares a store for the catalog: it creates the
// database, applies the schema and loads sample rows. Nothing here runs
// implicitly; cmd/migrate and cmd/seed call it explicitly.
package provision

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"lms/internal/store"
)

const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"

	migrationsDir = "migrations"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrUnknownCommand = errors.New("unknown migration command")

// goose keeps its dialect, filesystem and logger in package state.
var gooseMu sync.Mutex

// Migrate runs a goose command against the gateway's database.
func Migrate(ctx context.Context, g *store.Gateway, command string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{g.Logger()})

	if err := goose.SetDialect(g.Dialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	db := g.DB().DB
	switch command {
	case CommandUp:
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	case CommandDown:
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
	case CommandStatus:
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q (use up, down or status)", ErrUnknownCommand, command)
	}
	return nil
}

// Version reports the schema version recorded in the database.
func Version(ctx context.Context, g *store.Gateway) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(g.Dialect()); err != nil {
		return 0, fmt.Errorf("goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, g.DB().DB)
}

type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}
