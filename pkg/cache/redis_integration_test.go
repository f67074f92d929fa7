//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCache_Integration(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(setupRedis(t), time.Minute)

	require.NoError(t, c.Ping(ctx))

	t.Run("miss is not an error", func(t *testing.T) {
		_, found, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set applies ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "book:1:avg_score", []byte("4.5"), 2*time.Minute))

		got, found, err := c.Get(ctx, "book:1:avg_score")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "4.5", string(got))

		ttl, err := c.client.TTL(ctx, "book:1:avg_score").Result()
		require.NoError(t, err)
		assert.InDelta(t, (2 * time.Minute).Seconds(), ttl.Seconds(), 5)
	})

	t.Run("delete prefix spans scan batches", func(t *testing.T) {
		for i := 0; i < scanBatchSize*2+7; i++ {
			key := fmt.Sprintf("search:books:q:term%d:p:1:pp:10", i)
			require.NoError(t, c.Set(ctx, key, []byte("{}"), time.Minute))
		}
		require.NoError(t, c.Set(ctx, "authors:summary", []byte("[]"), time.Minute))

		require.NoError(t, c.DeletePrefix(ctx, "search:books:"))
		require.NoError(t, c.DeletePrefix(ctx, "search:books:"))

		keys, err := c.client.Keys(ctx, "search:books:*").Result()
		require.NoError(t, err)
		assert.Empty(t, keys)

		_, found, err := c.Get(ctx, "authors:summary")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("delete absent keys", func(t *testing.T) {
		assert.NoError(t, c.Delete(ctx, "nope", "nope-2"))
	})
}
