package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lms/internal/access"
	"lms/internal/catalog"
	"lms/internal/config"
	"lms/internal/console"
	"lms/internal/logging"
	"lms/internal/store"
)

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	v          *viper.Viper
	configFile string
	jsonOut    bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "lms",
		Short:         "Library catalog manager",
		Long:          "lms manages a library's book catalog. Librarians add, remove and search\nbooks; members browse and search the catalog.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoConfig] == "true" {
				return nil
			}
			return a.load(cmd)
		},
		RunE: a.runSession,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./lms.yaml)")
	flags.String("db-driver", "", "database driver: pgx, postgres or sqlite")
	flags.String("db-path", "", "SQLite database file")
	flags.String("access-backend", "", "librarian check: table or file")
	flags.String("log-level", "", "debug, info, warn or error")
	_ = a.v.BindPFlag(config.KeyDBDriver, flags.Lookup("db-driver"))
	_ = a.v.BindPFlag(config.KeyDBPath, flags.Lookup("db-path"))
	_ = a.v.BindPFlag(config.KeyAccessBackend, flags.Lookup("access-backend"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(newBooksCmd(a))
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	config.LoadEnvFiles()

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

func (a *app) open(ctx context.Context) (*store.Gateway, error) {
	g, err := store.Open(ctx, a.cfg.DB, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog: %w", err)
	}
	return g, nil
}

func (a *app) runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	g, err := a.open(ctx)
	if err != nil {
		// Start offline; each catalog call fails on its own until the store answers.
		a.logger.Warn("catalog store unavailable, starting offline", "error", err.Error())
		if g, err = store.OpenLazy(ctx, a.cfg.DB, a.logger); err != nil {
			return fmt.Errorf("connect to catalog: %w", err)
		}
	}
	defer g.Close()

	auth, err := access.New(a.cfg.Access, g)
	if err != nil {
		return err
	}

	svc := catalog.NewService(catalog.NewSQLRepo(g), a.logger)
	return console.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), svc, auth, a.logger).Run(ctx)
}
