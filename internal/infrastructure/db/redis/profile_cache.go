package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecom/user-service/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// cachedUser is the stored projection. The password hash is deliberately
// excluded: the cache serves profile reads only, and a cached record must
// never become a second place credentials live.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileCache caches user records by id. Key format: user:<id>
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
// A non-positive ttl falls back to defaultCacheTTL.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached record for id, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, nil
	}

	return &domain.User{
		ID:        cu.ID,
		Email:     cu.Email,
		FirstName: cu.FirstName,
		LastName:  cu.LastName,
		Role:      domain.Role(cu.Role),
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, nil
}

// Set stores the sanitized projection of user (expires after the cache TTL).
func (c *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	cu := cachedUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	raw, err := json.Marshal(cu)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached record for id.
func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *ProfileCache) key(id string) string {
	return fmt.Sprintf("user:%s", id)
}
