package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"restaurantadmin/internal/models"
)

func newTestCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionCache(client, time.Hour), mr
}

func TestSessionCacheRoundTrip(t *testing.T) {
	sessions, mr := newTestCache(t)
	ctx := context.Background()

	user := models.User{
		ID:           "u1",
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         models.UserRoleAdmin,
	}
	require.NoError(t, sessions.Set(ctx, user))

	raw, err := mr.Get("session:u1")
	require.NoError(t, err)
	require.NotContains(t, raw, "secret")
	require.Equal(t, time.Hour, mr.TTL("session:u1"))

	got, err := sessions.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", got.Email)
	require.Equal(t, models.UserRoleAdmin, got.Role)
	require.Empty(t, got.PasswordHash)
}

func TestSessionCacheDelete(t *testing.T) {
	sessions, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, sessions.Set(ctx, models.User{ID: "u1"}))
	require.NoError(t, sessions.Delete(ctx, "u1"))

	_, err := sessions.Get(ctx, "u1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionCacheExpires(t *testing.T) {
	sessions, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, sessions.Set(ctx, models.User{ID: "u1"}))
	mr.FastForward(time.Hour + time.Second)

	_, err := sessions.Get(ctx, "u1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
