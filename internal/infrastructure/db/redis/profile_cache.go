package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playtube/account-service/internal/core/domain"
)

const defaultProfileTTL = time.Minute

// ProfileCache caches channel-profile aggregations in Redis.
// Key format: channel:<username>:<viewer_id> (viewer part is "anon" for
// unauthenticated viewers, since is_subscribed depends on the viewer).
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache wraps the given Redis client. If ttl <= 0 a short default
// is used; the cache is only ever invalidated by expiry.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	raw, err := c.client.Get(ctx, c.key(username, viewerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var profile domain.ChannelProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &profile, nil
}

// Set stores the profile under the viewer-scoped key (expires after ttl).
func (c *ProfileCache) Set(ctx context.Context, username, viewerID string, profile *domain.ChannelProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(username, viewerID), raw, c.ttl).Err()
}

func (c *ProfileCache) key(username, viewerID string) string {
	if viewerID == "" {
		viewerID = "anon"
	}
	return fmt.Sprintf("channel:%s:%s", username, viewerID)
}
