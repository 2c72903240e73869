package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caltrack/caltrack/internal/model"
)

// userCachePrefix is the Redis key prefix for cached user profiles.
const userCachePrefix = "user:profile:"

func userKey(id string) string {
	return userCachePrefix + id
}

// GetUser returns a cached user profile or ErrCacheMiss.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupted entry, treat as miss.
		return nil, ErrCacheMiss
	}

	return &user, nil
}

// SetUser caches a user profile.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, userKey(user.ID), data, c.userTTL).Err()
}

// DeleteUser drops a cached profile. Called whenever a user's role or
// limits change or the user is removed.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	return c.client.Del(ctx, userKey(id)).Err()
}
