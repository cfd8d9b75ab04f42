// Command migrate applies the embedded schema migrations to the configured
// store, optionally creating the PostgreSQL database first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"lms/internal/config"
	"lms/internal/logging"
	"lms/internal/provision"
	"lms/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		command    = fs.String("command", provision.CommandUp, "Migration command: up, down, status")
		createDB   = fs.Bool("create-db", false, "Create the PostgreSQL database when it does not exist")
		configFile = fs.String("config", "", "Config file (default: ./lms.yaml)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config.LoadEnvFiles()
	cfg, err := config.Load(config.New(), *configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)

	if *createDB {
		created, err := provision.EnsureDatabase(ctx, cfg.DB, logger)
		if err != nil {
			return fmt.Errorf("ensure database: %w", err)
		}
		if created {
			fmt.Fprintf(stdout, "Database %s created\n", cfg.DB.Name)
		}
	}

	g, err := store.Open(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer g.Close()

	if err := provision.Migrate(ctx, g, *command); err != nil {
		return err
	}

	switch *command {
	case provision.CommandUp:
		fmt.Fprintln(stdout, "Migrations applied successfully")
	case provision.CommandDown:
		fmt.Fprintln(stdout, "Migrations rolled back successfully")
	}
	return nil
}
