package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AccessTable = "table"
	AccessFile  = "file"

	configName = "lms"
	configType = "yaml"
)

// Keys understood by Load. Each has an environment variable bound in bindEnv.
const (
	KeyDBDriver         = "db.driver"
	KeyDBHost           = "db.host"
	KeyDBName           = "db.name"
	KeyDBUser           = "db.user"
	KeyDBPassword       = "db.password"
	KeyDBPort           = "db.port"
	KeyDBSSLMode        = "db.sslmode"
	KeyDBPath           = "db.path"
	KeyDBConnectTimeout = "db.connect_timeout"
	KeyDBQueryTimeout   = "db.query_timeout"
	KeyAccessBackend    = "access.backend"
	KeyAccessAllowList  = "access.allowlist"
	KeyAccessAttempts   = "access.attempts_per_minute"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
)

var (
	ErrMissingPassword = errors.New("db.password (DB_PASSWORD) is required for postgres drivers")
	ErrUnknownDriver   = errors.New("unknown db.driver")
	ErrUnknownBackend  = errors.New("unknown access.backend")
)

type Config struct {
	DB     DBConfig
	Access AccessConfig
	Log    LogConfig
}

type DBConfig struct {
	Driver         string
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	SSLMode        string
	Path           string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type AccessConfig struct {
	Backend           string
	AllowListPath     string
	AttemptsPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers may bind command-line flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBDriver, DriverPGX)
	v.SetDefault(KeyDBHost, "localhost")
	v.SetDefault(KeyDBName, "lms")
	v.SetDefault(KeyDBUser, "postgres")
	v.SetDefault(KeyDBPort, 5432)
	v.SetDefault(KeyDBSSLMode, "disable")
	v.SetDefault(KeyDBPath, "lms.db")
	v.SetDefault(KeyDBConnectTimeout, 5*time.Second)
	v.SetDefault(KeyDBQueryTimeout, 5*time.Second)
	v.SetDefault(KeyAccessBackend, AccessTable)
	v.SetDefault(KeyAccessAllowList, "librarians.txt")
	v.SetDefault(KeyAccessAttempts, 5)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv(KeyDBDriver, "DB_DRIVER")
	_ = v.BindEnv(KeyDBHost, "DB_HOST")
	_ = v.BindEnv(KeyDBName, "DB_NAME")
	_ = v.BindEnv(KeyDBUser, "DB_USER")
	_ = v.BindEnv(KeyDBPassword, "DB_PASSWORD")
	_ = v.BindEnv(KeyDBPort, "DB_PORT")
	_ = v.BindEnv(KeyDBSSLMode, "DB_SSLMODE")
	_ = v.BindEnv(KeyDBPath, "DB_PATH")
	_ = v.BindEnv(KeyDBConnectTimeout, "DB_CONNECT_TIMEOUT")
	_ = v.BindEnv(KeyDBQueryTimeout, "DB_QUERY_TIMEOUT")
	_ = v.BindEnv(KeyAccessBackend, "ACCESS_BACKEND")
	_ = v.BindEnv(KeyAccessAllowList, "ACCESS_ALLOWLIST")
	_ = v.BindEnv(KeyAccessAttempts, "ACCESS_ATTEMPTS_PER_MINUTE")
	_ = v.BindEnv(KeyLogLevel, "LOG_LEVEL")
	_ = v.BindEnv(KeyLogFormat, "LOG_FORMAT")
}

// LoadEnvFiles reads .env and .env.local into the process environment.
// Variables already set by the runtime are never overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the optional config file and returns the validated configuration.
// An empty configFile looks for lms.yaml in the working directory and
// tolerates its absence; an explicit path must exist.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DB: DBConfig{
			Driver:         v.GetString(KeyDBDriver),
			Host:           v.GetString(KeyDBHost),
			Name:           v.GetString(KeyDBName),
			User:           v.GetString(KeyDBUser),
			Password:       v.GetString(KeyDBPassword),
			Port:           v.GetInt(KeyDBPort),
			SSLMode:        v.GetString(KeyDBSSLMode),
			Path:           v.GetString(KeyDBPath),
			ConnectTimeout: v.GetDuration(KeyDBConnectTimeout),
			QueryTimeout:   v.GetDuration(KeyDBQueryTimeout),
		},
		Access: AccessConfig{
			Backend:           v.GetString(KeyAccessBackend),
			AllowListPath:     v.GetString(KeyAccessAllowList),
			AttemptsPerMinute: v.GetInt(KeyAccessAttempts),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverPGX, DriverPostgres:
		if c.DB.Password == "" {
			return ErrMissingPassword
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DB.Driver)
	}

	switch c.Access.Backend {
	case AccessTable, AccessFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Access.Backend)
	}
	return nil
}

// IsPostgres reports whether the configured driver talks to PostgreSQL.
func (c DBConfig) IsPostgres() bool {
	return c.Driver == DriverPGX || c.Driver == DriverPostgres
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return c.postgresURL(c.Name)
}

// MaintenanceDSN points at the server's default "postgres" database, used to
// create the application database when it does not exist yet.
func (c DBConfig) MaintenanceDSN() string {
	return c.postgresURL("postgres")
}

func (c DBConfig) postgresURL(database string) string {
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		// libpq reads whole seconds; round up so sub-second values stay nonzero.
		q.Set("connect_timeout", strconv.Itoa(int(math.Ceil(c.ConnectTimeout.Seconds()))))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	return u.String()
}
