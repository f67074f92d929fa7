package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is the byte-oriented key/value contract used by the read path.
// Implementations never hold source-of-truth data: flushing a cache only costs latency.
type Cache interface {
	// Get returns the stored bytes and found=true on a hit.
	// A miss is (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. ttl <= 0 means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Pinger is implemented by backends that can report connectivity (used by health checks).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrEmptyKey is returned by backends when asked to store an empty key.
var ErrEmptyKey = errors.New("cache: empty key")

// GetJSON reads key and decodes it into a T.
// Backend errors and undecodable payloads are both reported as a miss.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var out T

	raw, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return out, false
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, false
	}

	return out, true
}

// SetJSON encodes value and stores it with ttl.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
