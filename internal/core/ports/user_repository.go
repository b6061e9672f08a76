package ports

import (
	"context"

	"github.com/playtube/account-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameOrEmail matches either field; empty arguments never match.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error)

	UpdateRefreshToken(ctx context.Context, id, refreshToken string) error
	// ClearRefreshToken removes the field entirely so a logged-out user is
	// distinguishable from one holding an empty token.
	ClearRefreshToken(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateDetails(ctx context.Context, id, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id string, avatar domain.Image) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id string, coverImage domain.Image) (*domain.User, error)

	// ChannelProfile runs the subscriptions join for a channel. viewerID may
	// be empty for anonymous viewers (IsSubscribed is then always false).
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	// WatchHistory resolves the user's watch-history references into full
	// video records with a single nested owner object, preserving order.
	WatchHistory(ctx context.Context, userID string) ([]domain.Video, error)
}
