package cache

import (
	"context"
	"time"
)

// NoopCache always misses and accepts every write.
// It is the fallback whenever no cache backend is configured or reachable.
type NoopCache struct{}

// NewNoopCache returns a Cache that stores nothing.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, ...string) error { return nil }

func (NoopCache) DeletePrefix(context.Context, string) error { return nil }

func (NoopCache) Ping(context.Context) error { return nil }
