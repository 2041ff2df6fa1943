package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool defaults used when the corresponding setting is zero or empty.
const (
	defaultMaxIdleConns    = 10
	defaultMaxOpenConns    = 100
	defaultConnMaxLifetime = time.Hour

	slowQueryThreshold = 200 * time.Millisecond
)

// dialectors maps database.driver to the constructor of its GORM dialector.
var dialectors = map[string]func(*DatabaseConfig) (gorm.Dialector, error){
	"sqlite":   sqliteDialector,
	"postgres": postgresDialector,
}

// SetupDatabase opens the catalog database described by cfg and applies the
// pool settings. SQL statements are logged through log: every statement when
// log has debug enabled, otherwise only slow queries and errors.
func SetupDatabase(cfg *DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}

	open, ok := dialectors[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	dialector, err := open(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := resolvePool(cfg.Pool)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.lifetime)

	log.Info("database connected",
		slog.String("driver", cfg.Driver),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Duration("conn_max_lifetime", pool.lifetime),
	)
	return db, nil
}

type resolvedPool struct {
	PoolConfig
	lifetime time.Duration
}

// resolvePool fills unset pool settings with defaults.
func resolvePool(p PoolConfig) (resolvedPool, error) {
	r := resolvedPool{PoolConfig: p, lifetime: defaultConnMaxLifetime}
	if r.MaxIdleConns <= 0 {
		r.MaxIdleConns = defaultMaxIdleConns
	}
	if r.MaxOpenConns <= 0 {
		r.MaxOpenConns = defaultMaxOpenConns
	}
	if raw := strings.TrimSpace(p.ConnMaxLifetime); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return r, fmt.Errorf("invalid pool.conn_max_lifetime %q: %w", p.ConnMaxLifetime, err)
		}
		if d <= 0 {
			return r, fmt.Errorf("invalid pool.conn_max_lifetime %q: must be greater than 0", p.ConnMaxLifetime)
		}
		r.lifetime = d
	}
	return r, nil
}

func sqliteDialector(cfg *DatabaseConfig) (gorm.Dialector, error) {
	path := cfg.SQLite.Path
	if !isMemoryDSN(path) {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory %q: %w", dir, err)
			}
		}
	}
	return sqlite.Open(sqliteDSN(path)), nil
}

func postgresDialector(cfg *DatabaseConfig) (gorm.Dialector, error) {
	return postgres.Open(buildPostgresDSN(&cfg.Postgres)), nil
}

// sqliteDSN appends the pragmas the catalog relies on to path: foreign keys
// (SQLite leaves them off) and, for database files, WAL journaling with a
// busy timeout. Pragmas the path already names are left alone.
func sqliteDSN(path string) string {
	pragmas := []string{"foreign_keys(1)"}
	if !isMemoryDSN(path) {
		pragmas = append(pragmas, "journal_mode(WAL)", "busy_timeout(5000)")
	}

	dsn := path
	for _, p := range pragmas {
		name, _, _ := strings.Cut(p, "(")
		if strings.Contains(path, name) {
			continue
		}
		sep := "&"
		if !strings.Contains(dsn, "?") {
			sep = "?"
		}
		dsn += sep + "_pragma=" + p
	}
	return dsn
}

func isMemoryDSN(path string) bool {
	return strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

func buildPostgresDSN(cfg *PostgresConfig) string {
	if cfg == nil {
		return ""
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// newGormLogger routes GORM's statement log into log. Record-not-found is
// not logged; repositories report it as a domain error.
func newGormLogger(log *slog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.Enabled(context.Background(), slog.LevelDebug) {
		level = gormlogger.Info
	}
	return gormlogger.New(slogWriter{log: log.With(slog.String("component", "gorm"))}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// slogWriter adapts an *slog.Logger to gormlogger.Writer.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
