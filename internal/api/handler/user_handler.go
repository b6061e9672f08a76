package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/playtube/account-service/internal/api/metrics"
	"github.com/playtube/account-service/internal/core/domain"
	"github.com/playtube/account-service/internal/core/ports"
)

// UserHandler handles all account endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func respond(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, apiResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	})
}

// firstFile returns the first uploaded file for a multipart field, or nil.
func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        username    formData  string  true   "Username"
// @Param        email       formData  string  true   "Email"
// @Param        fullName    formData  string  true   "Full name"
// @Param        password    formData  string  true   "Password"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201  {object}  apiResponse
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form data is required")
	}

	input := ports.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		FullName: c.FormValue("fullName"),
		Password: c.FormValue("password"),
	}

	if fh := firstFile(form, "avatar"); fh != nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		input.Avatar = &ports.FileInput{Filename: fh.Filename, Reader: f}
	}
	if fh := firstFile(form, "coverImage"); fh != nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		input.CoverImage = &ports.FileInput{Filename: fh.Filename, Reader: f}
	}

	user, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUploadFailed) {
			metrics.MediaUploadsTotal.WithLabelValues("avatar", "error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.Inc()
	metrics.MediaUploadsTotal.WithLabelValues("avatar", "success").Inc()
	return respond(c, http.StatusCreated, toUserResponse(user), "user registered successfully")
}

// Login authenticates a user and issues a token pair.
//
// @Summary      Login with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setAuthCookies(c, result.Tokens)

	return respond(c, http.StatusOK, loginResponse{
		User:         toUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}, "user logged in successfully")
}

// Logout clears the stored refresh token and both auth cookies.
//
// @Summary      Logout the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	clearAuthCookies(c)
	return respond(c, http.StatusOK, map[string]any{}, "user logged out successfully")
}

// RefreshToken rotates the access/refresh token pair. The incoming refresh
// token is read from the cookie, falling back to the request body.
//
// @Summary      Refresh the token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshTokenRequest  false  "Refresh token (alternative to cookie)"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/users/refresh-token [post]
func (h *UserHandler) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(cookieRefreshToken); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshTokenRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	tokens, err := h.service.RefreshTokens(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid_token").Inc()
		return err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	setAuthCookies(c, *tokens)

	return respond(c, http.StatusOK, tokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "access token refreshed")
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change the current password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new passwords"
// @Success      200   {object}  apiResponse
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]any{}, "password updated successfully")
}

// CurrentUser returns the authenticated user's full public record, not just
// the token claims.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, toUserResponse(user), "current user fetched successfully")
}

// UpdateAccount replaces the caller's full name and email.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "New details"
// @Success      200   {object}  apiResponse
// @Router       /api/v1/users/update-account [patch]
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), userID, req.FullName, req.Email)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, toUserResponse(user), "account details updated successfully")
}

// UpdateAvatar replaces the caller's avatar.
//
// @Summary      Update the avatar image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "New avatar image"
// @Success      200     {object}  apiResponse
// @Router       /api/v1/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.service.UpdateAvatar)
}

// UpdateCoverImage replaces the caller's cover image.
//
// @Summary      Update the cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "New cover image"
// @Success      200         {object}  apiResponse
// @Router       /api/v1/users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage", h.service.UpdateCoverImage)
}

// updateImage is the shared multipart flow for avatar and cover replacement.
// The field name doubles as the metric kind label.
func (h *UserHandler) updateImage(
	c echo.Context,
	field string,
	update func(ctx context.Context, userID string, file *ports.FileInput) (*domain.User, error),
) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var input *ports.FileInput
	if fh, err := c.FormFile(field); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		input = &ports.FileInput{Filename: fh.Filename, Reader: f}
	}

	kind := "avatar"
	if field == "coverImage" {
		kind = "cover_image"
	}

	user, err := update(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrUploadFailed) {
			metrics.MediaUploadsTotal.WithLabelValues(kind, "error").Inc()
		}
		return err
	}

	metrics.MediaUploadsTotal.WithLabelValues(kind, "success").Inc()
	return respond(c, http.StatusOK, toUserResponse(user), field+" updated successfully")
}

// ChannelProfile returns the aggregated channel view for a username. The
// viewer's identity, when present, drives the isSubscribed flag.
//
// @Summary      Get a channel profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Channel username"
// @Success      200       {object}  apiResponse
// @Failure      404       {object}  map[string]any
// @Router       /api/v1/users/c/{username} [get]
func (h *UserHandler) ChannelProfile(c echo.Context) error {
	username := c.Param("username")
	viewerID, _ := c.Get("user_id").(string)

	profile, err := h.service.ChannelProfile(c.Request().Context(), username, viewerID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, toChannelProfileResponse(profile), "user channel fetched successfully")
}

// WatchHistory returns the caller's watch history with owners resolved.
//
// @Summary      Get the watch history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /api/v1/users/history [get]
func (h *UserHandler) WatchHistory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	videos, err := h.service.WatchHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, toVideoResponses(videos), "watch history fetched successfully")
}
