package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
	apperrors "github.com/akeren/college-forms/pkg/errors"
	"github.com/akeren/college-forms/pkg/constants"
	"github.com/akeren/college-forms/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig is the store's connection target. The env tags name the variable
// each field is read from and are used when reporting validation errors.
type DBConfig struct {
	Driver   string `env:"DB_DRIVER" validate:"required,oneof=mysql postgres sqlite"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" validate:"required_without=URL"`
	Port     int    `env:"DB_PORT" validate:"gte=0,lte=65535"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" validate:"required_without=URL"`
	SSLMode  string `env:"DB_SSLMODE" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" validate:"gt=0"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewDBConfigFromEnv reads the DB_* variables, falling back to development
// defaults for anything unset.
func NewDBConfigFromEnv() (*DBConfig, error) {
	cfg := &DBConfig{
		URL:      sanitizeEnv(utils.GetEnvTrimmed("DATABASE_URL")),
		Host:     sanitizeEnv(utils.GetEnvTrimmedOrDefault("DB_HOST", constants.DefaultDBHost)),
		User:     sanitizeEnv(utils.GetEnvTrimmedOrDefault("DB_USER", constants.DefaultDBUser)),
		Password: sanitizeEnv(GetValueFromEnvironmentVariable("DB_PASSWORD", "")),
		Name:     sanitizeEnv(utils.GetEnvTrimmedOrDefault("DB_NAME", constants.DefaultDBName)),
		SSLMode:  sanitizeEnv(utils.GetEnvTrimmedOrDefault("DB_SSLMODE", "disable")),

		MaxIdleConns: 10,
		MaxOpenConns: 100,
	}

	cfg.Driver = resolveDriver(sanitizeEnv(utils.GetEnvTrimmed("DB_DRIVER")), cfg.URL)

	var err error

	if cfg.Port, err = envInt("DB_PORT", defaultPortFor(cfg.Driver)); err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout, err = envDuration("DB_CONNECT_TIMEOUT", constants.DefaultDBConnectTimeout); err != nil {
		return nil, err
	}
	if cfg.ConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveDriver(explicit, rawURL string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}

	scheme, _, found := strings.Cut(rawURL, "://")
	if !found {
		return constants.DefaultDBDriver
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres
	case "sqlite", "sqlite3", "file":
		return DriverSQLite
	default:
		return DriverMySQL
	}
}

func defaultPortFor(driver string) int {
	switch driver {
	case DriverPostgres:
		return constants.DefaultPostgresPort
	case DriverSQLite:
		return 0
	default:
		return constants.DefaultMySQLPort
	}
}

func envInt(key string, def int) (int, error) {
	raw := sanitizeEnv(utils.GetEnvTrimmed(key))
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}

	return n, nil
}

func (c *DBConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		details := apperrors.FormatValidationErrors(err, c, "env")
		if len(details) == 0 {
			return apperrors.NewInvalidConfigError("invalid database configuration", err)
		}
		return apperrors.NewInvalidConfigError("invalid database configuration: "+apperrors.JoinValidationErrors(details), err)
	}

	return nil
}

func (c *DBConfig) Pool() storage.PoolConfig {
	return storage.PoolConfig{
		MaxIdleConns:    c.MaxIdleConns,
		MaxOpenConns:    c.MaxOpenConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// Dialector builds the gorm dialector for the configured driver. Every DSN
// carries a connection-establishment timeout so that an unreachable store
// fails fast instead of hanging a request.
func (c *DBConfig) Dialector(logger *log.Logger) (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL:
		dsn, err := c.MySQLDSN()
		if err != nil {
			return nil, err
		}
		c.logTarget(logger)
		return gormmysql.Open(dsn), nil

	case DriverPostgres:
		dsn := c.PostgresDSN()
		c.logTarget(logger)
		return postgres.Open(dsn), nil

	case DriverSQLite:
		path := c.SQLitePath()
		logger.Info("Connecting to database", "driver", c.Driver, "path", path)
		return sqlite.Open(path), nil

	default:
		return nil, apperrors.NewInvalidConfigError(fmt.Sprintf("unsupported DB_DRIVER %q", c.Driver), nil)
	}
}

func (c *DBConfig) logTarget(logger *log.Logger) {
	if c.URL != "" {
		logger.Info("Using DATABASE_URL for database connection", "driver", c.Driver)
		return
	}

	logger.Info("Connecting to database",
		"driver", c.Driver,
		"host", c.Host,
		"port", c.Port,
		"user", c.User,
		"dbname", c.Name,
		"connect_timeout", c.ConnectTimeout.String(),
	)
}

// MySQLDSN accepts DATABASE_URL either as a mysql:// URL or as a native
// go-sql-driver DSN; otherwise it is assembled from the DB_* parts.
func (c *DBConfig) MySQLDSN() (string, error) {
	var (
		cfg *mysql.Config
		err error
	)

	switch {
	case c.URL == "":
		cfg = mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		cfg.DBName = c.Name

	case strings.Contains(c.URL, "://"):
		var dsn string
		if dsn, err = mysqlDSNFromURL(c.URL); err != nil {
			return "", err
		}
		if cfg, err = mysql.ParseDSN(dsn); err != nil {
			return "", apperrors.NewInvalidConfigError("invalid DATABASE_URL", err)
		}

	default:
		if cfg, err = mysql.ParseDSN(c.URL); err != nil {
			return "", apperrors.NewInvalidConfigError("invalid DATABASE_URL", err)
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = c.ConnectTimeout
	}
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", apperrors.NewInvalidConfigError("invalid DATABASE_URL", err)
	}
	if u.Host == "" {
		return "", apperrors.NewInvalidConfigError("invalid DATABASE_URL: missing host", nil)
	}

	var userinfo string
	if u.User != nil {
		userinfo = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			userinfo += ":" + pass
		}
		userinfo += "@"
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), strconv.Itoa(constants.DefaultMySQLPort))
	}

	dsn := fmt.Sprintf("%stcp(%s)/%s", userinfo, addr, strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}

	return dsn, nil
}

// PostgresDSN appends connect_timeout to DATABASE_URL when it does not set one.
func (c *DBConfig) PostgresDSN() string {
	timeout := connectTimeoutSeconds(c.ConnectTimeout)

	if c.URL != "" {
		if strings.Contains(c.URL, "connect_timeout=") {
			return c.URL
		}
		if strings.Contains(c.URL, "://") {
			sep := "?"
			if strings.Contains(c.URL, "?") {
				sep = "&"
			}
			return fmt.Sprintf("%s%sconnect_timeout=%d", c.URL, sep, timeout)
		}
		return fmt.Sprintf("%s connect_timeout=%d", c.URL, timeout)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, timeout,
	)
}

// SQLitePath treats DB_NAME (or DATABASE_URL) as a file path.
func (c *DBConfig) SQLitePath() string {
	path := c.Name
	if c.URL != "" {
		path = c.URL
		for _, prefix := range []string{"sqlite3://", "sqlite://"} {
			path = strings.TrimPrefix(path, prefix)
		}
	}

	if path != ":memory:" && !strings.HasPrefix(path, "file:") && filepath.Ext(path) == "" {
		path += ".db"
	}

	return path
}

func connectTimeoutSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// OpenStore connects a new store for cfg. A connection failure is logged and
// leaves the store Failed rather than aborting startup; only configuration
// errors are returned.
func OpenStore(logger *log.Logger, cfg *DBConfig) (*storage.Store, error) {
	dialector, err := cfg.Dialector(logger)
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	store := storage.New(logger)
	if err := store.Connect(dialector, cfg.Pool()); err != nil {
		logger.Error("Database unavailable; submissions will fail with storage errors until restart", "error", err)
	}

	return store, nil
}

func CloseStore(store *storage.Store, logger *log.Logger) {
	if store == nil {
		return
	}

	if err := store.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
