package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
)

func newTestCache(t *testing.T, ttlSeconds int) (*RedisUserCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisUserCache(client, ttlSeconds), srv
}

func testUser() *domain.User {
	token := "refresh-1"
	avatar := "https://www.gravatar.com/avatar/abc"
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Confirmed:    true,
		RefreshToken: &token,
		Avatar:       &avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRedisUserCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, 300)

	user := testUser()
	require.NoError(t, c.Set(ctx, user))

	got, err := c.Get(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestRedisUserCache_Miss(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, 300)

	got, err := c.Get(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_SetAppliesTTL(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t, 300)

	user := testUser()
	require.NoError(t, c.Set(ctx, user))

	assert.Equal(t, 300*time.Second, srv.TTL("user:"+user.Email))

	srv.FastForward(301 * time.Second)

	got, err := c.Get(ctx, user.Email)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_UnknownSnapshotVersionIsMiss(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t, 300)

	require.NoError(t, srv.Set("user:alice@example.com", `{"v":99,"email":"alice@example.com"}`))

	got, err := c.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_MalformedSnapshotIsMiss(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t, 300)

	require.NoError(t, srv.Set("user:alice@example.com", "not-json"))

	got, err := c.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, 300)

	user := testUser()
	require.NoError(t, c.Set(ctx, user))
	require.NoError(t, c.Invalidate(ctx, user.Email))

	got, err := c.Get(ctx, user.Email)
	require.NoError(t, err)
	assert.Nil(t, got)
}
