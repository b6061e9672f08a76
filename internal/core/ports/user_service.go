package ports

import (
	"context"
	"io"

	"github.com/playtube/account-service/internal/core/domain"
)

// FileInput is an uploaded file as received by the transport layer.
type FileInput struct {
	Filename string
	Reader   io.Reader
}

// RegisterInput carries all data needed to create a new account.
// Avatar is mandatory; CoverImage may be nil.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *FileInput
	CoverImage *FileInput
}

// LoginInput identifies a user by username or email plus password.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is a freshly signed access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file *FileInput) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, file *FileInput) (*domain.User, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.Video, error)
}
