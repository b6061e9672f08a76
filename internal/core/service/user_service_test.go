package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/playtube/account-service/internal/core/domain"
	"github.com/playtube/account-service/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
	// createErr, when set, fails the next Create call.
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return nil, err
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != "" && u.RefreshToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateRefreshToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *stubUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = ""
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateDetails(_ context.Context, id, fullName, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.FullName = fullName
	u.Email = email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateAvatar(_ context.Context, id string, avatar domain.Image) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Avatar = avatar
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateCoverImage(_ context.Context, id string, cover domain.Image) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.CoverImage = cover
	return cloneUser(u), nil
}

func (r *stubUserRepo) ChannelProfile(_ context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	for _, u := range r.users {
		if u.Username == username {
			return &domain.ChannelProfile{Username: u.Username, FullName: u.FullName}, nil
		}
	}
	return nil, domain.ErrChannelNotFound
}

func (r *stubUserRepo) WatchHistory(_ context.Context, userID string) ([]domain.Video, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	videos := make([]domain.Video, 0, len(u.WatchHistory))
	for _, id := range u.WatchHistory {
		videos = append(videos, domain.Video{ID: id, Owner: domain.VideoOwner{Username: "owner"}})
	}
	return videos, nil
}

type stubStorage struct {
	uploads  int
	deletes  []string
	failNext bool
	// failOn fails the nth upload call (1-based) when set.
	failOn   int
	emptyURL bool
}

func (s *stubStorage) Upload(_ context.Context, filename string, r io.Reader) (*ports.UploadedMedia, error) {
	s.uploads++
	if s.failNext {
		s.failNext = false
		return nil, errors.New("upstream unavailable")
	}
	if s.failOn != 0 && s.uploads == s.failOn {
		return nil, errors.New("upstream unavailable")
	}
	if s.emptyURL {
		return &ports.UploadedMedia{PublicID: "pub/" + filename}, nil
	}
	return &ports.UploadedMedia{
		PublicID: "pub/" + filename,
		URL:      "https://cdn.example.com/" + filename,
	}, nil
}

func (s *stubStorage) Delete(_ context.Context, publicID string) error {
	s.deletes = append(s.deletes, publicID)
	return nil
}

type stubCleanup struct {
	enqueued []string
}

func (c *stubCleanup) Enqueue(publicID string) {
	c.enqueued = append(c.enqueued, publicID)
}

type stubCache struct {
	entries map[string]*domain.ChannelProfile
	hits    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.ChannelProfile)}
}

func (c *stubCache) Get(_ context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	if p, ok := c.entries[username+":"+viewerID]; ok {
		c.hits++
		return p, nil
	}
	return nil, nil
}

func (c *stubCache) Set(_ context.Context, username, viewerID string, p *domain.ChannelProfile) error {
	c.entries[username+":"+viewerID] = p
	return nil
}

type testEnv struct {
	svc     *UserService
	repo    *stubUserRepo
	storage *stubStorage
	cleanup *stubCleanup
	cache   *stubCache
}

func newTestEnv() *testEnv {
	repo := newStubUserRepo()
	storage := &stubStorage{}
	cleanup := &stubCleanup{}
	cache := newStubCache()
	svc := NewUserService(repo, storage, cache, cleanup, TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
	}, zerolog.Nop())
	return &testEnv{svc: svc, repo: repo, storage: storage, cleanup: cleanup, cache: cache}
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username: "Alice",
		Email:    "Alice@Example.com",
		FullName: "Alice Doe",
		Password: "s3cret",
		Avatar:   &ports.FileInput{Filename: "avatar.png", Reader: bytes.NewReader([]byte("img"))},
	}
}

func TestUserService_Register_Success(t *testing.T) {
	env := newTestEnv()

	user, err := env.svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("expected normalized username/email, got %q %q", user.Username, user.Email)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Avatar.URL == "" || user.Avatar.PublicID == "" {
		t.Fatalf("expected avatar to be stored, got %+v", user.Avatar)
	}
	if !user.CoverImage.IsZero() {
		t.Fatalf("expected empty cover image, got %+v", user.CoverImage)
	}
	if user.RefreshToken != "" {
		t.Fatalf("new user must not carry a refresh token")
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	env := newTestEnv()

	input := registerInput()
	input.FullName = "   "
	if _, err := env.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_Register_MissingAvatar(t *testing.T) {
	env := newTestEnv()

	input := registerInput()
	input.Avatar = nil
	// Supplying a cover image must not satisfy the avatar requirement.
	input.CoverImage = &ports.FileInput{Filename: "cover.png", Reader: bytes.NewReader([]byte("img"))}

	if _, err := env.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if env.storage.uploads != 0 {
		t.Fatalf("no upload should happen without an avatar")
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Same username in different casing still conflicts.
	input := registerInput()
	input.Username = "ALICE"
	input.Email = "other@example.com"
	if _, err := env.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// Same email, different username.
	input = registerInput()
	input.Username = "bob"
	if _, err := env.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Register_AvatarUploadFailure(t *testing.T) {
	env := newTestEnv()
	env.storage.failNext = true

	if _, err := env.svc.Register(context.Background(), registerInput()); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(env.repo.users) != 0 {
		t.Fatalf("no user should be persisted after a failed avatar upload")
	}
}

func TestUserService_Register_CoverUploadFailureIsNonFatal(t *testing.T) {
	env := newTestEnv()

	input := registerInput()
	input.CoverImage = &ports.FileInput{Filename: "cover.png", Reader: bytes.NewReader([]byte("img"))}

	// First upload (avatar) succeeds, second (cover) fails.
	env.storage.failOn = 2

	user, err := env.svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !user.CoverImage.IsZero() {
		t.Fatalf("expected empty cover image after failed optional upload, got %+v", user.CoverImage)
	}
}

func TestUserService_Register_PersistFailureReclaimsUploads(t *testing.T) {
	env := newTestEnv()
	env.repo.createErr = errors.New("write failed")

	input := registerInput()
	input.CoverImage = &ports.FileInput{Filename: "cover.png", Reader: bytes.NewReader([]byte("img"))}

	if _, err := env.svc.Register(context.Background(), input); err == nil {
		t.Fatalf("expected Register to fail")
	}
	if len(env.cleanup.enqueued) != 2 {
		t.Fatalf("expected both uploaded assets scheduled for deletion, got %v", env.cleanup.enqueued)
	}
	if env.cleanup.enqueued[0] != "pub/avatar.png" || env.cleanup.enqueued[1] != "pub/cover.png" {
		t.Fatalf("unexpected cleanup ids: %v", env.cleanup.enqueued)
	}
}

func TestUserService_PasswordWithSurroundingWhitespaceRoundTrips(t *testing.T) {
	env := newTestEnv()

	input := registerInput()
	input.Password = "  padded pass  "
	if _, err := env.svc.Register(context.Background(), input); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// The password must be hashed exactly as submitted, so the identical
	// string logs in and the trimmed variant does not.
	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "  padded pass  "}); err != nil {
		t.Fatalf("login with the registration password failed: %v", err)
	}
	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "padded pass"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the trimmed variant, got %v", err)
	}
}

func registerAndLogin(t *testing.T, env *testEnv) (*domain.User, *ports.LoginResult) {
	t.Helper()
	user, err := env.svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	result, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return user, result
}

func TestUserService_Login_Success(t *testing.T) {
	env := newTestEnv()
	user, result := registerAndLogin(t, env)

	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result.Tokens)
	}

	stored := env.repo.users[user.ID]
	if stored.RefreshToken != result.Tokens.RefreshToken {
		t.Fatalf("persisted refresh token does not match the returned one")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Tokens.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims["username"] != "alice" || claims["user_id"] != user.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestUserService_Login_ByEmail(t *testing.T) {
	env := newTestEnv()
	if _, err := env.svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	env := newTestEnv()
	user, result := registerAndLogin(t, env)

	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// A failed login must not touch the stored refresh token.
	if env.repo.users[user.ID].RefreshToken != result.Tokens.RefreshToken {
		t.Fatalf("stored refresh token changed after a failed login")
	}
}

func TestUserService_Login_UserNotFound(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "ghost", Password: "pass"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Login_MissingIdentifier(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Password: "pass"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_CurrentUser(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)

	got, err := env.svc.CurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if got.Username != "alice" || got.Avatar.PublicID == "" {
		t.Fatalf("expected the full stored record, got %+v", got)
	}

	if _, err := env.svc.CurrentUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_LogoutInvalidatesRefreshToken(t *testing.T) {
	env := newTestEnv()
	user, result := registerAndLogin(t, env)

	if err := env.svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if env.repo.users[user.ID].RefreshToken != "" {
		t.Fatalf("refresh token should be cleared on logout")
	}

	// The just-cleared token no longer refreshes.
	if _, err := env.svc.RefreshTokens(context.Background(), result.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestUserService_RefreshTokens_Rotation(t *testing.T) {
	env := newTestEnv()
	user, result := registerAndLogin(t, env)

	tokens, err := env.svc.RefreshTokens(context.Background(), result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected a fresh pair, got %+v", tokens)
	}
	if env.repo.users[user.ID].RefreshToken != tokens.RefreshToken {
		t.Fatalf("rotated refresh token not persisted")
	}
}

func TestUserService_RefreshTokens_BadSignature(t *testing.T) {
	env := newTestEnv()
	registerAndLogin(t, env)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	token, _ := forged.SignedString([]byte("wrong-secret"))

	if _, err := env.svc.RefreshTokens(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
}

func TestUserService_RefreshTokens_Empty(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.RefreshTokens(context.Background(), ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)

	if err := env.svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}

	if err := env.svc.ChangePassword(context.Background(), user.ID, "s3cret", "newpass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "newpass"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := env.svc.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "s3cret"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}
}

func TestUserService_UpdateAccount(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)

	if _, err := env.svc.UpdateAccount(context.Background(), user.ID, "", "new@example.com"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	updated, err := env.svc.UpdateAccount(context.Background(), user.ID, "Alice Updated", "New@Example.com")
	if err != nil {
		t.Fatalf("update account failed: %v", err)
	}
	if updated.FullName != "Alice Updated" || updated.Email != "new@example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestUserService_UpdateAvatar_ReplacesAndCleansUp(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)
	oldPublicID := user.Avatar.PublicID

	file := &ports.FileInput{Filename: "new-avatar.png", Reader: strings.NewReader("img")}
	updated, err := env.svc.UpdateAvatar(context.Background(), user.ID, file)
	if err != nil {
		t.Fatalf("update avatar failed: %v", err)
	}
	if updated.Avatar.PublicID == oldPublicID {
		t.Fatalf("avatar was not replaced")
	}
	if len(env.cleanup.enqueued) != 1 || env.cleanup.enqueued[0] != oldPublicID {
		t.Fatalf("expected exactly one cleanup of %q, got %v", oldPublicID, env.cleanup.enqueued)
	}
}

func TestUserService_UpdateAvatar_NoFile(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)

	if _, err := env.svc.UpdateAvatar(context.Background(), user.ID, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_UpdateAvatar_EmptyUploadURL(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)
	env.storage.emptyURL = true

	file := &ports.FileInput{Filename: "new.png", Reader: strings.NewReader("img")}
	if _, err := env.svc.UpdateAvatar(context.Background(), user.ID, file); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(env.cleanup.enqueued) != 0 {
		t.Fatalf("no cleanup should run after a failed upload")
	}
}

func TestUserService_UpdateCoverImage_FirstUploadNoCleanup(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)

	// The user registered without a cover image; nothing to clean up.
	file := &ports.FileInput{Filename: "cover.png", Reader: strings.NewReader("img")}
	updated, err := env.svc.UpdateCoverImage(context.Background(), user.ID, file)
	if err != nil {
		t.Fatalf("update cover image failed: %v", err)
	}
	if updated.CoverImage.URL == "" {
		t.Fatalf("cover image not stored")
	}
	if len(env.cleanup.enqueued) != 0 {
		t.Fatalf("no cleanup expected for a first cover upload, got %v", env.cleanup.enqueued)
	}
}

func TestUserService_ChannelProfile_Validation(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.ChannelProfile(context.Background(), "   ", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_ChannelProfile_CachesResult(t *testing.T) {
	env := newTestEnv()
	registerAndLogin(t, env)

	first, err := env.svc.ChannelProfile(context.Background(), "Alice", "viewer-1")
	if err != nil {
		t.Fatalf("channel profile failed: %v", err)
	}

	second, err := env.svc.ChannelProfile(context.Background(), "alice", "viewer-1")
	if err != nil {
		t.Fatalf("cached channel profile failed: %v", err)
	}
	if env.cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", env.cache.hits)
	}
	if first.Username != second.Username {
		t.Fatalf("cached profile differs: %+v vs %+v", first, second)
	}
}

func TestUserService_ChannelProfile_NotFound(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.ChannelProfile(context.Background(), "ghost", ""); !errors.Is(err, domain.ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestUserService_WatchHistory_PreservesOrder(t *testing.T) {
	env := newTestEnv()
	user, _ := registerAndLogin(t, env)
	env.repo.users[user.ID].WatchHistory = []string{"vid-3", "vid-1", "vid-2"}

	videos, err := env.svc.WatchHistory(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("watch history failed: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(videos))
	}
	for i, want := range []string{"vid-3", "vid-1", "vid-2"} {
		if videos[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, videos[i].ID)
		}
	}
}

func TestUserService_WatchHistory_UserMissing(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.WatchHistory(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
