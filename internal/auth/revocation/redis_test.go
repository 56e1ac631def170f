package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisList(t *testing.T) (*RedisList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisList(client), mr
}

func TestRedisListRevokeAndCheck(t *testing.T) {
	list, _ := newRedisList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisListEntryExpires(t *testing.T) {
	list, mr := newRedisList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisListEmptyJTI(t *testing.T) {
	list, mr := newRedisList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "", time.Minute))
	assert.Empty(t, mr.Keys())

	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryListExpiry(t *testing.T) {
	list := NewMemoryList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", 10*time.Millisecond))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(20 * time.Millisecond)

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
