package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestKeyIsNamespacedAndHashed(t *testing.T) {
	r := NewVisitedRepo(nil, "comments")
	k := r.key("https://example.com/p")
	require.True(t, strings.HasPrefix(k, "harvest:visited:comments:"))
	require.Len(t, strings.TrimPrefix(k, "harvest:visited:comments:"), 64)
	require.NotEqual(t, k, NewVisitedRepo(nil, "listings").key("https://example.com/p"))
}

// Runs against the server named by REDIS_TEST_ADDR.
func TestVisitedRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	r := NewVisitedRepo(client, "test-"+time.Now().Format("150405.000000"))
	seed := "https://example.com/p"

	visited, err := r.IsVisited(ctx, seed)
	require.NoError(t, err)
	require.False(t, visited)

	require.NoError(t, r.MarkVisited(ctx, seed, time.Minute))
	visited, err = r.IsVisited(ctx, seed)
	require.NoError(t, err)
	require.True(t, visited)

	require.NoError(t, r.RemoveVisited(ctx, seed))
	visited, err = r.IsVisited(ctx, seed)
	require.NoError(t, err)
	require.False(t, visited)
}
