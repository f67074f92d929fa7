package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader computes a view on a cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// flight tracks one in-progress load. stale is set when the key is evicted
// while the loader runs; the result is still returned to its callers but never stored.
type flight struct {
	mu    sync.Mutex
	stale bool
}

// ReadThrough serves cached views and collapses concurrent misses on the same key.
// It also implements Cache: evictions made through it detach in-flight loads of the
// evicted keys, so a load started before a write cannot refill the slot or be shared
// with readers arriving after the eviction.
type ReadThrough struct {
	cache Cache
	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]*flight
}

func NewReadThrough(c Cache) *ReadThrough {
	return &ReadThrough{
		cache:    c,
		inflight: make(map[string]*flight),
	}
}

// Cache returns the underlying cache.
func (rt *ReadThrough) Cache() Cache {
	return rt.cache
}

// Read returns the cached T under key, or runs load, stores the result for ttl and returns it.
// A payload that does not decode counts as a miss. Write failures are logged, never returned.
func Read[T any](ctx context.Context, rt *ReadThrough, key string, ttl time.Duration, load Loader[T]) (T, error) {
	if cached, ok := GetJSON[T](ctx, rt.cache, key); ok {
		return cached, nil
	}

	log.Debug().Str("key", key).Msg("cache miss")

	v, err, _ := rt.group.Do(key, func() (interface{}, error) {
		f := rt.begin(key)
		defer rt.end(key, f)

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.stale {
			log.Debug().Str("key", key).Msg("key evicted during load, result not cached")
			return value, nil
		}
		if err := SetJSON(ctx, rt.cache, key, value, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

func (rt *ReadThrough) begin(key string) *flight {
	f := &flight{}
	rt.mu.Lock()
	rt.inflight[key] = f
	rt.mu.Unlock()
	return f
}

func (rt *ReadThrough) end(key string, f *flight) {
	rt.mu.Lock()
	if rt.inflight[key] == f {
		delete(rt.inflight, key)
	}
	rt.mu.Unlock()
}

// detach marks the matching in-flight loads stale and forgets them, so the next
// reader of those keys starts a fresh load.
func (rt *ReadThrough) detach(match func(key string) bool) {
	rt.mu.Lock()
	var hit []*flight
	for key, f := range rt.inflight {
		if !match(key) {
			continue
		}
		hit = append(hit, f)
		delete(rt.inflight, key)
		rt.group.Forget(key)
	}
	rt.mu.Unlock()

	for _, f := range hit {
		f.mu.Lock()
		f.stale = true
		f.mu.Unlock()
	}
}

func (rt *ReadThrough) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return rt.cache.Get(ctx, key)
}

func (rt *ReadThrough) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return rt.cache.Set(ctx, key, value, ttl)
}

// Delete detaches in-flight loads of keys, then removes them from the cache.
func (rt *ReadThrough) Delete(ctx context.Context, keys ...string) error {
	rt.detach(func(key string) bool {
		for _, k := range keys {
			if k == key {
				return true
			}
		}
		return false
	})
	return rt.cache.Delete(ctx, keys...)
}

// DeletePrefix detaches in-flight loads under prefix, then removes the cached keys.
func (rt *ReadThrough) DeletePrefix(ctx context.Context, prefix string) error {
	rt.detach(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	return rt.cache.DeletePrefix(ctx, prefix)
}
