// Package store owns the database connection. It is the only package that
// opens connections; everything else receives a *Gateway.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"lms/internal/apperr"
	"lms/internal/config"
	"lms/internal/logging"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"

	defaultMaxConnections    = int32(4)
	defaultMinConnections    = int32(0)
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultQueryTimeout      = time.Second * 5

	logMsgOpenFailed = "cannot open database"
	logMsgPingFailed = "cannot ping database"
	logMsgConnected  = "database connection OK"
	logAttrDriver    = "driver"
	logAttrDSN       = "dsn"
	logAttrError     = "error"
)

// Gateway is a pooled handle to the catalog database together with the SQL
// dialect its statements must be built for.
type Gateway struct {
	db      *sqlx.DB
	pool    *pgxpool.Pool
	dialect string
	timeout time.Duration
	logger  *slog.Logger
}

// Open connects to the store described by cfg and verifies the connection
// with a ping bounded by cfg.ConnectTimeout. Every failure is returned
// wrapped in apperr.ErrConnection.
func Open(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*Gateway, error) {
	g, err := OpenLazy(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout(cfg))
	defer cancel()
	if err := g.Ping(pingCtx); err != nil {
		g.Close()
		g.logger.Error(logMsgPingFailed, logAttrDriver, cfg.Driver, logAttrDSN, RedactDSN(cfg.DSN()), logAttrError, err.Error())
		return nil, err
	}

	g.logger.Info(logMsgConnected, logAttrDriver, cfg.Driver, logAttrDSN, RedactDSN(cfg.DSN()))
	return g, nil
}

// OpenLazy builds the pool without dialing. An unreachable store surfaces
// as apperr.ErrConnection on the first call that needs a connection, so
// callers can keep running while the store is down. Only a configuration
// that cannot be turned into a pool is an error here.
func OpenLazy(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	var (
		g   *Gateway
		err error
	)
	switch cfg.Driver {
	case config.DriverPGX:
		g, err = openPGX(ctx, cfg)
	case config.DriverPostgres:
		g, err = openSQL(cfg, "postgres", DialectPostgres)
	case config.DriverSQLite:
		g, err = openSQL(cfg, "sqlite", DialectSQLite)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		logger.Error(logMsgOpenFailed, logAttrDriver, cfg.Driver, logAttrDSN, RedactDSN(cfg.DSN()), logAttrError, err.Error())
		return nil, apperr.Wrap(apperr.ErrConnection, err)
	}

	g.timeout = cfg.QueryTimeout
	if g.timeout <= 0 {
		g.timeout = defaultQueryTimeout
	}
	g.logger = logger
	return g, nil
}

func pingTimeout(cfg config.DBConfig) time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return defaultQueryTimeout
}

func openPGX(ctx context.Context, cfg config.DBConfig) (*Gateway, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConnections
	poolCfg.MinConns = defaultMinConnections
	poolCfg.MaxConnLifetime = defaultMaxConnLifetime
	poolCfg.MaxConnIdleTime = defaultMaxConnIdleTime
	poolCfg.HealthCheckPeriod = defaultHealthCheckPeriod
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Gateway{
		db:      sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx"),
		pool:    pool,
		dialect: DialectPostgres,
	}, nil
}

func openSQL(cfg config.DBConfig, driverName, dialect string) (*Gateway, error) {
	db, err := sqlx.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(int(defaultMaxConnections))
	db.SetMaxIdleConns(int(defaultMaxConnections))
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return &Gateway{db: db, dialect: dialect}, nil
}

// NewFromDB wraps an already opened handle. The gateway takes ownership and
// closes db on Close.
func NewFromDB(db *sqlx.DB, dialect string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Gateway{db: db, dialect: dialect, timeout: defaultQueryTimeout, logger: logger}
}

// DB returns the pooled handle.
func (g *Gateway) DB() *sqlx.DB {
	return g.db
}

// Dialect is the goqu and goose dialect name of the store.
func (g *Gateway) Dialect() string {
	return g.dialect
}

// Builder returns a goqu builder for the store's dialect.
func (g *Gateway) Builder() goqu.DialectWrapper {
	return goqu.Dialect(g.dialect)
}

// Logger returns the logger the gateway was opened with.
func (g *Gateway) Logger() *slog.Logger {
	return g.logger
}

// WithTimeout bounds a single repository call.
func (g *Gateway) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

// Conn acquires a scoped connection from the pool. The caller must Close it
// on every exit path.
func (g *Gateway) Conn(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := g.db.Connx(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrConnection, err)
	}
	return conn, nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return apperr.Wrap(apperr.ErrConnection, err)
	}
	return nil
}

func (g *Gateway) Close() {
	if g.db != nil {
		_ = g.db.Close()
	}
	if g.pool != nil {
		g.pool.Close()
	}
}
