package ports

import (
	"context"

	"github.com/playtube/account-service/internal/core/domain"
)

// ProfileCache is a short-TTL cache for channel-profile aggregations.
// Get returns (nil, nil) on a miss; cache errors are never fatal to a read.
type ProfileCache interface {
	Get(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	Set(ctx context.Context, username, viewerID string, profile *domain.ChannelProfile) error
}
