package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the sturdyc settings for the in-process backend.
type MemoryConfig struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards splits the keyspace for concurrent access. Must be greater than 0.
	NumShards int

	// MaxTTL bounds every entry. Per-key TTLs passed to Set are honoured up to this value.
	MaxTTL time.Duration

	// EvictionPercentage is the share of entries dropped when capacity is reached (1-100).
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single API instance.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		MaxTTL:             10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.MaxTTL <= 0 {
		return &ConfigError{Field: "MaxTTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

// entry carries its own deadline so shorter per-view TTLs survive the shared client TTL.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache implements Cache with a sharded sturdyc client.
type MemoryCache struct {
	client *sturdyc.Client[entry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewMemoryCache validates cfg and builds the sturdyc client.
func NewMemoryCache(cfg MemoryConfig) (*MemoryCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
	)

	return &MemoryCache{
		client: client,
		maxTTL: cfg.MaxTTL,
		now:    time.Now,
	}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := c.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.client.Delete(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl <= 0 || ttl > c.maxTTL {
		ttl = c.maxTTL
	}

	data := make([]byte, len(value))
	copy(data, value)

	c.client.Set(key, entry{data: data, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.client.Delete(key)
	}
	return nil
}

func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range c.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			c.client.Delete(key)
		}
	}
	return nil
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

// Size reports the number of stored entries, expired ones included until touched.
func (c *MemoryCache) Size() int {
	return c.client.Size()
}
