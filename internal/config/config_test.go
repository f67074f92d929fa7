package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, CacheBackendNone, cfg.Cache.Backend)
	assert.Equal(t, SearchBackendNone, cfg.Search.Backend)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL.AuthorsSummary)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL.Author)
	assert.Equal(t, 120*time.Second, cfg.Cache.TTL.BookAvgScore)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL.Search)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_CACHE__BACKEND", "redis")
	t.Setenv("CATALOG_DATABASE__HOST", "db.internal")
	t.Setenv("CATALOG_CACHE__TTL__SEARCH", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Search)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  port: "9090"
cache:
  backend: memory
search:
  backend: postgres
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CATALOG_APP__PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, SearchBackendPostgres, cfg.Search.Backend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "cache.backend",
		},
		{
			name:    "unknown search backend",
			mutate:  func(c *Config) { c.Search.Backend = "elastic" },
			wantErr: "search.backend",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.Cache.TTL.BookAvgScore = 0 },
			wantErr: "cache.ttl.book_avg_score",
		},
		{
			name:    "non numeric port",
			mutate:  func(c *Config) { c.App.Port = "http" },
			wantErr: "app.port",
		},
		{
			name:    "redis addr without port",
			mutate:  func(c *Config) { c.Redis.Addr = "localhost" },
			wantErr: "redis.addr",
		},
		{
			name: "minio endpoint with scheme",
			mutate: func(c *Config) {
				c.MinIO.Enabled = true
				c.MinIO.Endpoint = "http://minio:9000"
			},
			wantErr: "minio.endpoint",
		},
		{
			name:   "minio endpoint ignored when disabled",
			mutate: func(c *Config) { c.MinIO.Endpoint = "" },
		},
		{
			name: "async search without queue",
			mutate: func(c *Config) {
				c.Search.Async = true
				c.Queue.Enabled = false
			},
			wantErr: "search.async",
		},
		{
			name:    "production with default secret",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: "auth.jwt_secret",
		},
		{
			name: "production fully configured",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Auth.JWTSecret = "s3cret"
				c.Auth.AdminPasswordHash = "$2a$10$hash"
				c.Database.Password = "pw"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p@ss", Name: "catalog", SSLMode: "disable", MaxConns: 7}

	mapped := LoadDatabaseConfig(&Config{Database: d})
	assert.Equal(t, "db", mapped.Host)
	assert.Equal(t, "catalog", mapped.DBName)
	assert.Equal(t, int32(7), mapped.MaxConns)
	assert.Equal(t, "postgresql://u:p%40ss@db:5433/catalog?sslmode=disable", mapped.ConnectionString())
}
