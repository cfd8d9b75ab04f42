// Command seed loads the sample librarians and books into a migrated store.
// With -generate it also adds synthetic books for load testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

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
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		generate   = fs.Int("generate", 0, "Number of synthetic books to add")
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

	g, err := store.Open(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer g.Close()

	res, err := provision.Seed(ctx, g)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Inserted %d librarians and %d books\n", res.Librarians, res.Books)

	if *generate > 0 {
		seed := uint64(time.Now().UnixNano())
		n, err := provision.GenerateBooks(ctx, g, *generate, rand.New(rand.NewPCG(seed, seed>>1)))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Generated %d books\n", n)
	}

	var total int
	if err := g.DB().GetContext(ctx, &total, `SELECT COUNT(*) FROM books`); err != nil {
		return store.Classify(err)
	}
	fmt.Fprintf(stdout, "Total books in database: %d\n", total)
	return nil
}
