package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/playtube/account-service/internal/core/domain"
	"github.com/playtube/account-service/internal/core/ports"
)

// TokenConfig holds the signing secrets and lifetimes for both token kinds.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// UserService implements account registration, authentication, profile and
// media management, and the channel/watch-history read paths.
type UserService struct {
	repo    ports.UserRepository
	storage ports.MediaStorage
	cache   ports.ProfileCache
	cleanup ports.MediaCleanup
	tokens  TokenConfig
	logger  zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	storage ports.MediaStorage,
	cache ports.ProfileCache,
	cleanup ports.MediaCleanup,
	tokens TokenConfig,
	logger zerolog.Logger,
) *UserService {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = 15 * time.Minute
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = 10 * 24 * time.Hour
	}
	return &UserService{
		repo:    repo,
		storage: storage,
		cache:   cache,
		cleanup: cleanup,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register creates a new account. The avatar upload is mandatory; a cover
// image upload failure is non-fatal since the field is optional.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	// The password is hashed exactly as submitted; trimming applies to the
	// emptiness check only.
	if username == "" || email == "" || fullName == "" || strings.TrimSpace(input.Password) == "" {
		return nil, fmt.Errorf("%w: username, email, full name and password are required", domain.ErrValidation)
	}
	if input.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrValidation)
	}

	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	avatar, err := s.storage.Upload(ctx, input.Avatar.Filename, input.Avatar.Reader)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("avatar upload failed")
		return nil, fmt.Errorf("%w: avatar", domain.ErrUploadFailed)
	}

	var coverImage domain.Image
	if input.CoverImage != nil {
		cover, err := s.storage.Upload(ctx, input.CoverImage.Filename, input.CoverImage.Reader)
		if err != nil {
			// Cover image is optional: registration proceeds without it.
			s.logger.Warn().Err(err).Str("username", username).Msg("cover image upload failed, continuing without it")
		} else {
			coverImage = domain.Image{PublicID: cover.PublicID, URL: cover.URL}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Avatar:       domain.Image{PublicID: avatar.PublicID, URL: avatar.URL},
		CoverImage:   coverImage,
		WatchHistory: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// The record never made it to the database; reclaim the assets
		// that were already uploaded for it.
		s.cleanup.Enqueue(user.Avatar.PublicID)
		if user.CoverImage.PublicID != "" {
			s.cleanup.Enqueue(user.CoverImage.PublicID)
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a fresh token pair. The refresh token
// is persisted on the user, replacing any prior session's token.
func (s *UserService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", domain.ErrValidation)
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{User: user, Tokens: *tokens}, nil
}

// Logout invalidates the current session by removing the stored refresh token.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// CurrentUser loads the authenticated user's full record.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// RefreshTokens rotates the token pair. The incoming token must both carry a
// valid signature and match the value persisted at last issuance.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.tokens.RefreshSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("tokens refreshed")
	return tokens, nil
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// UpdateAccount replaces the mutable profile fields.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, fmt.Errorf("%w: full name and email are required", domain.ErrValidation)
	}
	return s.repo.UpdateDetails(ctx, userID, fullName, email)
}

// UpdateAvatar uploads the new image, swaps the stored pair and schedules the
// previous asset for best-effort deletion.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *ports.FileInput) (*domain.User, error) {
	return s.replaceImage(ctx, userID, file, "avatar",
		func(u *domain.User) domain.Image { return u.Avatar },
		s.repo.UpdateAvatar,
	)
}

// UpdateCoverImage behaves like UpdateAvatar for the optional cover image.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *ports.FileInput) (*domain.User, error) {
	return s.replaceImage(ctx, userID, file, "cover image",
		func(u *domain.User) domain.Image { return u.CoverImage },
		s.repo.UpdateCoverImage,
	)
}

func (s *UserService) replaceImage(
	ctx context.Context,
	userID string,
	file *ports.FileInput,
	kind string,
	current func(*domain.User) domain.Image,
	persist func(context.Context, string, domain.Image) (*domain.User, error),
) (*domain.User, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: %s file is required", domain.ErrValidation, kind)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := current(user)

	uploaded, err := s.storage.Upload(ctx, file.Filename, file.Reader)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msgf("%s upload failed", kind)
		return nil, fmt.Errorf("%w: %s", domain.ErrUploadFailed, kind)
	}
	if uploaded.URL == "" {
		return nil, fmt.Errorf("%w: %s upload returned no URL", domain.ErrUploadFailed, kind)
	}

	updated, err := persist(ctx, userID, domain.Image{PublicID: uploaded.PublicID, URL: uploaded.URL})
	if err != nil {
		return nil, err
	}

	// The old asset is deleted after the update commits. Deletion is
	// best-effort: a failure leaks the asset but never rolls back the update.
	if previous.PublicID != "" {
		s.cleanup.Enqueue(previous.PublicID)
	}

	return updated, nil
}

// ChannelProfile returns the aggregated channel view, served from the cache
// when a fresh entry exists. Cache failures fall through to the database.
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, username, viewerID)
		if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.repo.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, username, viewerID, profile); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("profile cache write failed")
		}
	}

	return profile, nil
}

// WatchHistory resolves the caller's watch-history references into full video
// records with owners attached.
func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]domain.Video, error) {
	return s.repo.WatchHistory(ctx, userID)
}

// issueTokens signs a fresh pair and persists the refresh token, overwriting
// any previously active session (last writer wins).
func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"exp":       now.Add(s.tokens.AccessTTL).Unix(),
	})
	accessToken, err := access.SignedString([]byte(s.tokens.AccessSecret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.tokens.RefreshTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
