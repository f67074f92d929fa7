package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("CATALOG_AUTH__JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--subject", "ops")
	require.NoError(t, err)

	claims, err := jwt.NewManager("cli-secret", time.Hour).ValidateAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestTokenCommand_RequiresSubject(t *testing.T) {
	subject = ""
	tokenCmd.Flags().Lookup("subject").Changed = false

	_, err := run(t, "token")
	assert.Error(t, err)
}

func TestCacheFlush_SkipsProcessLocalBackends(t *testing.T) {
	t.Setenv("CATALOG_CACHE__BACKEND", config.CacheBackendMemory)

	out, err := run(t, "cache", "flush")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing shared to flush")
}

func TestFlushCatalog(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewMemoryCache(cache.DefaultMemoryConfig())
	require.NoError(t, err)

	keys := []string{
		invalidation.AuthorsSummaryKey,
		invalidation.SearchKey("dune", 1, 10),
		"book:42:avg_score",
		"author:7",
	}
	for _, k := range keys {
		require.NoError(t, c.Set(ctx, k, []byte("{}"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, "asynq:queues", []byte("x"), time.Minute))

	var out bytes.Buffer
	cacheFlushCmd.SetOut(&out)
	require.NoError(t, flushCatalog(ctx, c, cacheFlushCmd))

	for _, k := range keys {
		_, found, _ := c.Get(ctx, k)
		assert.False(t, found, k)
	}
	_, found, _ := c.Get(ctx, "asynq:queues")
	assert.True(t, found)
}
