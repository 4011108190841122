package session

import (
	"context"
	"os"
	"testing"
	"time"

	"cryptonest/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisStore needs a live server, e.g. REDIS_TEST_ADDR=localhost:6379
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := utils.NewRedisClient(ctx, addr, os.Getenv("REDIS_TEST_PASS"), 0)
	require.NoError(t, err)
	defer rdb.Close()

	store := NewRedisStore(rdb)
	id := uuid.NewString()
	defer store.Delete(ctx, id)

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	in := &Data{UserID: 3, Currency: "JPY", Flashes: []Flash{{Success, "saved"}}}
	require.NoError(t, store.Set(ctx, id, in, time.Minute))

	out, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	ttl, err := rdb.TTL(ctx, redisKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, id))
	_, ok, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
