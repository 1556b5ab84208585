package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mihailobuhov/contacts-api/internal/auth/domain"
)

const snapshotVersion = 1

// userSnapshot is the explicit cache serialization contract: a
// versioned JSON copy of the user row at fill time.
type userSnapshot struct {
	Version      int       `json:"v"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Confirmed    bool      `json:"confirmed"`
	RefreshToken *string   `json:"refresh_token"`
	Avatar       *string   `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttlSeconds int) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func cacheKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

// Get returns the cached user, or (nil, nil) on a miss. A snapshot of
// an unknown version is treated as a miss.
func (c *RedisUserCache) Get(ctx context.Context, email string) (*domain.User, error) {
	data, err := c.client.Get(ctx, cacheKey(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user cache: %w", err)
	}

	var snap userSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil
	}
	if snap.Version != snapshotVersion {
		return nil, nil
	}

	return &domain.User{
		ID:           snap.ID,
		Username:     snap.Username,
		Email:        snap.Email,
		PasswordHash: snap.PasswordHash,
		Confirmed:    snap.Confirmed,
		RefreshToken: snap.RefreshToken,
		Avatar:       snap.Avatar,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    snap.UpdatedAt,
	}, nil
}

func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	snap := userSnapshot{
		Version:      snapshotVersion,
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Confirmed:    user.Confirmed,
		RefreshToken: user.RefreshToken,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(user.Email), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write user cache: %w", err)
	}

	return nil
}

func (c *RedisUserCache) Invalidate(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, cacheKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}
	return nil
}
