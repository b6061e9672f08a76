package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/playtube/account-service/internal/api/handler"
	"github.com/playtube/account-service/internal/api/middleware"
	"github.com/playtube/account-service/internal/core/ports"
	"github.com/playtube/account-service/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	userService ports.UserService,
	db *mongo.Database,
	rdb *redis.Client,
	accessSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(userService)
	auth := middleware.Auth(accessSecret)
	optionalAuth := middleware.OptionalAuth(accessSecret)

	// --- User routes ---
	users := e.Group("/api/v1/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/refresh-token", userHandler.RefreshToken)
	users.POST("/logout", userHandler.Logout, auth)
	users.POST("/change-password", userHandler.ChangePassword, auth)
	users.GET("/current-user", userHandler.CurrentUser, auth)
	users.PATCH("/update-account", userHandler.UpdateAccount, auth)
	users.PATCH("/avatar", userHandler.UpdateAvatar, auth)
	users.PATCH("/cover-image", userHandler.UpdateCoverImage, auth)
	users.GET("/c/:username", userHandler.ChannelProfile, optionalAuth)
	users.GET("/history", userHandler.WatchHistory, auth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
