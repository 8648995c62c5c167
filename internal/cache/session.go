package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurantadmin/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionCache keeps a JSON snapshot of each signed-in user keyed by user id.
// It is a cache: the users table stays authoritative and entries are simply
// overwritten on every mutation.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) Get(ctx context.Context, userID string) (models.User, error) {
	raw, err := c.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.User{}, ErrSessionNotFound
		}
		return models.User{}, fmt.Errorf("get session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("decode session: %w", err)
	}
	return user, nil
}

func (c *SessionCache) Set(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(user.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (c *SessionCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}
