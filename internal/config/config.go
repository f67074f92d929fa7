package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "CATALOG_"
	defaultJWTSecret = "change-me-in-production"

	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	SearchBackendNone     = "none"
	SearchBackendPostgres = "postgres"
)

// Config holds the whole application configuration.
// Sources, lowest precedence first: defaults, optional YAML file, CATALOG_* environment.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Cache    CacheConfig    `koanf:"cache"`
	Search   SearchConfig   `koanf:"search"`
	Queue    QueueConfig    `koanf:"queue"`
	MinIO    MinIOConfig    `koanf:"minio"`
	Auth     AuthConfig     `koanf:"auth"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"` // development, staging, production
	Port        string `koanf:"port"`
	Version     string `koanf:"version"`
	LogLevel    string `koanf:"log_level"`
}

type DatabaseConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	User              string        `koanf:"user"`
	Password          string        `koanf:"password"`
	Name              string        `koanf:"name"`
	SSLMode           string        `koanf:"sslmode"`
	MaxConns          int           `koanf:"max_conns"`
	MinConns          int           `koanf:"min_conns"`
	MaxConnLifetime   time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `koanf:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `koanf:"health_check_period"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryDelay        time.Duration `koanf:"retry_delay"`
	ConnectTimeout    time.Duration `koanf:"connect_timeout"`
	AutoMigrate       bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
}

// CacheConfig selects the cache backend and the per-view TTLs.
type CacheConfig struct {
	Backend string         `koanf:"backend"` // none, memory, redis
	TTL     CacheTTLConfig `koanf:"ttl"`
	Memory  MemoryConfig   `koanf:"memory"`
}

type CacheTTLConfig struct {
	Default        time.Duration `koanf:"default"`
	AuthorsSummary time.Duration `koanf:"authors_summary"`
	Author         time.Duration `koanf:"author"`
	BookAvgScore   time.Duration `koanf:"book_avg_score"`
	Search         time.Duration `koanf:"search"`
}

type MemoryConfig struct {
	Capacity           int `koanf:"capacity"`
	Shards             int `koanf:"shards"`
	EvictionPercentage int `koanf:"eviction_percentage"`
}

// SearchConfig selects the search index backend.
// Async routes index writes through the task queue instead of applying them inline.
type SearchConfig struct {
	Backend string `koanf:"backend"` // none, postgres
	Async   bool   `koanf:"async"`
}

type QueueConfig struct {
	Enabled       bool   `koanf:"enabled"`
	ReconcileCron string `koanf:"reconcile_cron"`
}

type MinIOConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	UseSSL    bool   `koanf:"use_ssl"`
}

type AuthConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	AdminSubject      string        `koanf:"admin_subject"`
	AdminPasswordHash string        `koanf:"admin_password_hash"` // bcrypt
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":        "Catalog API",
		"app.environment": "development",
		"app.port":        "8080",
		"app.version":     "1.0.0",
		"app.log_level":   "info",

		"database.host":                "localhost",
		"database.port":                5432,
		"database.user":                "catalog",
		"database.password":            "",
		"database.name":                "catalog",
		"database.sslmode":             "disable",
		"database.max_conns":           25,
		"database.min_conns":           5,
		"database.max_conn_lifetime":   "5m",
		"database.max_conn_idle_time":  "1m",
		"database.health_check_period": "1m",
		"database.max_retries":         5,
		"database.retry_delay":         "1s",
		"database.connect_timeout":     "10s",
		"database.auto_migrate":        true,

		"redis.addr":           "localhost:6379",
		"redis.password":       "",
		"redis.db":             0,
		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,
		"redis.dial_timeout":   "5s",

		"cache.backend":                    CacheBackendNone,
		"cache.ttl.default":                "5m",
		"cache.ttl.authors_summary":        "300s",
		"cache.ttl.author":                 "600s",
		"cache.ttl.book_avg_score":         "120s",
		"cache.ttl.search":                 "300s",
		"cache.memory.capacity":            10000,
		"cache.memory.shards":              64,
		"cache.memory.eviction_percentage": 10,

		"search.backend": SearchBackendNone,
		"search.async":   false,

		"queue.enabled":        false,
		"queue.reconcile_cron": "0 3 * * *",

		"minio.enabled":    false,
		"minio.endpoint":   "localhost:9000",
		"minio.access_key": "minioadmin",
		"minio.secret_key": "minioadmin",
		"minio.bucket":     "catalog",
		"minio.use_ssl":    false,

		"auth.jwt_secret":          defaultJWTSecret,
		"auth.token_ttl":           "12h",
		"auth.admin_subject":       "admin",
		"auth.admin_password_hash": "",
	}
}

// Load reads defaults, then configPath (if not empty), then CATALOG_* variables.
// CATALOG_DATABASE__HOST=db overrides database.host.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks backend names, TTLs, network addresses and production secrets.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendNone, CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("cache.backend %q is not one of none, memory, redis", c.Cache.Backend)
	}

	switch c.Search.Backend {
	case SearchBackendNone, SearchBackendPostgres:
	default:
		return fmt.Errorf("search.backend %q is not one of none, postgres", c.Search.Backend)
	}

	ttls := map[string]time.Duration{
		"cache.ttl.default":         c.Cache.TTL.Default,
		"cache.ttl.authors_summary": c.Cache.TTL.AuthorsSummary,
		"cache.ttl.author":          c.Cache.TTL.Author,
		"cache.ttl.book_avg_score":  c.Cache.TTL.BookAvgScore,
		"cache.ttl.search":          c.Cache.TTL.Search,
	}
	for name, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if err := validation.Validate(c.App.Port, validation.Required, is.Port); err != nil {
		return fmt.Errorf("app.port: %w", err)
	}
	if err := validation.Validate(c.Redis.Addr, validation.Required, is.DialString); err != nil {
		return fmt.Errorf("redis.addr: %w", err)
	}
	if c.MinIO.Enabled {
		if err := validation.Validate(c.MinIO.Endpoint, validation.Required, is.DialString); err != nil {
			return fmt.Errorf("minio.endpoint: %w", err)
		}
	}

	if c.Search.Async && !c.Queue.Enabled {
		return fmt.Errorf("search.async requires queue.enabled")
	}

	if c.IsProduction() {
		if c.Auth.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("auth.jwt_secret must be set in production")
		}
		if c.Auth.AdminPasswordHash == "" {
			return fmt.Errorf("auth.admin_password_hash must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password must be set in production")
		}
	}

	return nil
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
