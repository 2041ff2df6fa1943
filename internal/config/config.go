package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Cache    CacheConfig    `koanf:"cache"`
	Media    MediaConfig    `koanf:"media"`
	Upload   UploadConfig   `koanf:"upload"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string     `koanf:"host"`
	Port    int        `koanf:"port"`
	Mode    string     `koanf:"mode"`
	Timeout string     `koanf:"timeout"`
	CORS    CORSConfig `koanf:"cors"`
	// TrustRequestID reuses a valid incoming X-Request-ID header.
	TrustRequestID bool `koanf:"trust_request_id"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// CacheConfig holds query cache settings.
type CacheConfig struct {
	// Driver is "memory" (ttlcache) or "sturdyc".
	Driver string `koanf:"driver"`
	TTL    string `koanf:"ttl"`
	// Capacity bounds the sturdyc backend. The memory backend is unbounded.
	Capacity int `koanf:"capacity"`
}

// TTLDuration returns the parsed TTL. Call after Validate.
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// MediaConfig holds media store settings.
type MediaConfig struct {
	// Driver is "cloudinary" or "local".
	Driver         string                `koanf:"driver"`
	Transformation string                `koanf:"transformation"`
	Cloudinary     CloudinaryMediaConfig `koanf:"cloudinary"`
	Local          LocalMediaConfig      `koanf:"local"`
}

// CloudinaryMediaConfig holds Cloudinary credentials. URL takes precedence.
type CloudinaryMediaConfig struct {
	URL       string `koanf:"url"`
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// LocalMediaConfig holds settings of the disk-backed media store.
type LocalMediaConfig struct {
	Dir     string `koanf:"dir"`
	BaseURL string `koanf:"base_url"`
}

// UploadConfig holds multipart upload settings.
type UploadConfig struct {
	TempDir   string `koanf:"temp_dir"`
	MaxSizeMB int    `koanf:"max_size_mb"`
}

// MaxBytes returns the upload size limit in bytes.
func (c UploadConfig) MaxBytes() int64 {
	return int64(c.MaxSizeMB) << 20
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// envPrefix marks environment variables that override the YAML file.
// A double underscore separates levels, so APP__SERVER__PORT sets server.port
// and APP__DATABASE__POOL__MAX_IDLE_CONNS sets database.pool.max_idle_conns.
const envPrefix = "APP__"

var (
	sslModes       = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	secureSSLModes = []string{"require", "verify-ca", "verify-full"}
)

// Load reads the YAML file at configPath, overlays APP__ environment
// variables, then validates the result and fills defaults.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// oneOf trims *v and checks it against allowed.
func oneOf(field string, v *string, allowed ...string) error {
	trimmed := strings.TrimSpace(*v)
	if !slices.Contains(allowed, trimmed) {
		quoted := make([]string, len(allowed))
		for i, a := range allowed {
			quoted[i] = strconv.Quote(a)
		}
		return fmt.Errorf("invalid %s %q: must be one of %s", field, *v, strings.Join(quoted, ", "))
	}
	*v = trimmed
	return nil
}

// required trims *v and rejects an empty result.
func required(field, when string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		if when != "" {
			return fmt.Errorf("%s is required when %s", field, when)
		}
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func validPort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", field, port)
	}
	return nil
}

// optionalDuration trims *v; whitespace means unset. A set value must be a
// positive Go duration.
func optionalDuration(field string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a valid duration (e.g. \"30s\", \"24h\"): %w", field, *v, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", field, *v)
	}
	return nil
}

// Validate checks supported values and cross-field constraints, normalizing
// strings and filling defaults in place.
func (c *Config) Validate() error {
	for _, validate := range []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateLog,
		c.validateCache,
		c.validateMedia,
		c.validateUpload,
		c.validateMetrics,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	s := &c.Server
	if err := oneOf("server.mode", &s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode); err != nil {
		return err
	}
	if err := validPort("server.port", s.Port); err != nil {
		return err
	}
	if err := required("server.host", "", &s.Host); err != nil {
		return err
	}
	if err := optionalDuration("server.timeout", &s.Timeout); err != nil {
		return err
	}
	return optionalDuration("server.cors.max_age", &s.CORS.MaxAge)
}

func (c *Config) validateDatabase() error {
	db := &c.Database
	if err := oneOf("database.driver", &db.Driver, "sqlite", "postgres"); err != nil {
		return err
	}
	if err := optionalDuration("database.pool.conn_max_lifetime", &db.Pool.ConnMaxLifetime); err != nil {
		return err
	}

	if db.Driver == "sqlite" {
		return required("database.sqlite.path", "driver is sqlite", &db.SQLite.Path)
	}

	pg := &db.Postgres
	const when = "driver is postgres"
	if err := required("database.postgres.host", when, &pg.Host); err != nil {
		return err
	}
	if err := validPort("database.postgres.port", pg.Port); err != nil {
		return err
	}
	if err := required("database.postgres.user", when, &pg.User); err != nil {
		return err
	}
	if err := required("database.postgres.dbname", when, &pg.DBName); err != nil {
		return err
	}
	if err := oneOf("database.postgres.sslmode", &pg.SSLMode, sslModes...); err != nil {
		return err
	}
	if c.Server.Mode == gin.ReleaseMode && !slices.Contains(secureSSLModes, pg.SSLMode) {
		return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %s",
			pg.SSLMode, gin.ReleaseMode, strings.Join(secureSSLModes, ", "))
	}
	return nil
}

func (c *Config) validateLog() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	if err := oneOf("log.level", &c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	return oneOf("log.format", &c.Log.Format, "text", "json", "custom")
}

func (c *Config) validateCache() error {
	driver := strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	if driver == "" {
		driver = "memory"
	}
	switch driver {
	case "memory", "sturdyc":
		c.Cache.Driver = driver
	default:
		return fmt.Errorf("invalid cache.driver %q: must be one of %q, %q", c.Cache.Driver, "memory", "sturdyc")
	}

	ttl := strings.TrimSpace(c.Cache.TTL)
	if ttl == "" {
		ttl = "60s"
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid cache.ttl %q: %w", c.Cache.TTL, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid cache.ttl %q: must be greater than 0", c.Cache.TTL)
	}
	c.Cache.TTL = ttl

	if c.Cache.Capacity < 0 {
		return fmt.Errorf("invalid cache.capacity %d: must not be negative", c.Cache.Capacity)
	}
	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = 10000
	}
	return nil
}

func (c *Config) validateMedia() error {
	driver := strings.ToLower(strings.TrimSpace(c.Media.Driver))
	if driver == "" {
		driver = "local"
	}
	c.Media.Transformation = strings.TrimSpace(c.Media.Transformation)
	if c.Media.Transformation == "" {
		c.Media.Transformation = "c_fill,w_400,h_300,q_60"
	}

	switch driver {
	case "cloudinary":
		cld := &c.Media.Cloudinary
		cld.URL = strings.TrimSpace(cld.URL)
		cld.CloudName = strings.TrimSpace(cld.CloudName)
		cld.APIKey = strings.TrimSpace(cld.APIKey)
		cld.APISecret = strings.TrimSpace(cld.APISecret)
		if cld.URL == "" && cld.CloudName == "" && cld.APIKey == "" && cld.APISecret == "" {
			cld.URL = strings.TrimSpace(os.Getenv("CLOUDINARY_URL"))
		}
		if cld.URL == "" && (cld.CloudName == "" || cld.APIKey == "" || cld.APISecret == "") {
			return fmt.Errorf("media.cloudinary.url or media.cloudinary.cloud_name, api_key and api_secret are required when driver is cloudinary")
		}
		if cld.URL != "" && !strings.HasPrefix(cld.URL, "cloudinary://") {
			return fmt.Errorf("invalid media.cloudinary.url: must start with %q", "cloudinary://")
		}
	case "local":
		dir := strings.TrimSpace(c.Media.Local.Dir)
		if dir == "" {
			dir = "data/media"
		}
		c.Media.Local.Dir = dir
		c.Media.Local.BaseURL = strings.TrimRight(strings.TrimSpace(c.Media.Local.BaseURL), "/")
	default:
		return fmt.Errorf("invalid media.driver %q: must be one of %q, %q", c.Media.Driver, "cloudinary", "local")
	}
	c.Media.Driver = driver
	return nil
}

func (c *Config) validateUpload() error {
	c.Upload.TempDir = strings.TrimSpace(c.Upload.TempDir)
	if c.Upload.TempDir == "" {
		c.Upload.TempDir = filepath.Join(os.TempDir(), "recipebook-uploads")
	}
	if c.Upload.MaxSizeMB < 0 {
		return fmt.Errorf("invalid upload.max_size_mb %d: must not be negative", c.Upload.MaxSizeMB)
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 4
	}
	return nil
}

func (c *Config) validateMetrics() error {
	p := strings.TrimSpace(c.Metrics.Path)
	if p == "" {
		p = "/metrics"
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("invalid metrics.path %q: must start with '/'", c.Metrics.Path)
	}
	c.Metrics.Path = p
	return nil
}
