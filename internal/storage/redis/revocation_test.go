package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/interview-assistant/internal/config"
)

func setupStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRevocationStore(context.Background(), config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists(keyPrefix+"jti-1"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"jti-1"))

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStore_EntryExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStore_ExpiredTokenIsNotStored(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	require.NoError(t, store.Revoke(ctx, "jti-1", 0))
	assert.False(t, mr.Exists(keyPrefix+"jti-1"))
}

func TestRevocationStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.IsRevoked(ctx, "jti-1")
	require.ErrorContains(t, err, "failed to check token revocation")

	err = store.Revoke(ctx, "jti-1", time.Minute)
	require.ErrorContains(t, err, "failed to revoke token")
}

func TestNewRevocationStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRevocationStore(context.Background(), config.Redis{Addr: addr})
	assert.Nil(t, store)
	require.ErrorContains(t, err, "failed to ping redis")
}

func TestNoopRevocationStore(t *testing.T) {
	ctx := context.Background()
	var store NoopRevocationStore

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, store.Close())
}

func TestRevocationStore_Close(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store, err := NewRevocationStore(ctx, config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)

	require.NoError(t, store.Close())

	_, err = store.IsRevoked(ctx, "jti-1")
	require.ErrorContains(t, err, "failed to check token revocation")
}
