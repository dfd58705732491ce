package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRevokeAllInvalidatesEarlierTokens(t *testing.T) {
	rdb := setupRedis(t)
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Hour)
	require.NoError(t, err)
	revoker := NewRevoker(rdb, time.Hour)
	ctx := context.Background()

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.False(t, revoker.IsRevoked(ctx, claims))

	// Watermark resolution is one second; make the token strictly older.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, revoker.RevokeAll(ctx, 42))

	assert.True(t, revoker.IsRevoked(ctx, claims))
}

func TestRevokerScopedPerUser(t *testing.T) {
	rdb := setupRedis(t)
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Hour)
	require.NoError(t, err)
	revoker := NewRevoker(rdb, time.Hour)
	ctx := context.Background()

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	claims, err := codec.Verify(token)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, revoker.RevokeAll(ctx, 99))

	assert.False(t, revoker.IsRevoked(ctx, claims), "revoking another user must not affect this session")
}

func TestRevokerRejectsTokenWithoutIssueTime(t *testing.T) {
	rdb := setupRedis(t)
	revoker := NewRevoker(rdb, time.Hour)
	ctx := context.Background()

	claims := &SessionClaims{}
	claims.Subject = "42"

	// No watermark yet: nothing to order against, token passes.
	assert.False(t, revoker.IsRevoked(ctx, claims))

	// Once a watermark exists, a token with no iat cannot prove it was
	// issued afterwards and must be rejected.
	require.NoError(t, revoker.RevokeAll(ctx, 42))
	assert.True(t, revoker.IsRevoked(ctx, claims))
}

func TestRevokerWithoutRedisIsNoop(t *testing.T) {
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Hour)
	require.NoError(t, err)
	revoker := NewRevoker(nil, time.Hour)
	ctx := context.Background()

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	claims, err := codec.Verify(token)
	require.NoError(t, err)

	require.NoError(t, revoker.RevokeAll(ctx, 42))
	assert.False(t, revoker.IsRevoked(ctx, claims))
}
