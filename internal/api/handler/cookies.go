package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/playtube/account-service/internal/core/ports"
)

const (
	cookieAccessToken  = "accessToken"
	cookieRefreshToken = "refreshToken"
)

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// setAuthCookies attaches both tokens as http-only secure cookies.
func setAuthCookies(c echo.Context, tokens ports.TokenPair) {
	c.SetCookie(authCookie(cookieAccessToken, tokens.AccessToken, 0))
	c.SetCookie(authCookie(cookieRefreshToken, tokens.RefreshToken, 0))
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(c echo.Context) {
	c.SetCookie(authCookie(cookieAccessToken, "", -1))
	c.SetCookie(authCookie(cookieRefreshToken, "", -1))
}
