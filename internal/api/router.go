package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/api/handler"
	"github.com/abejanet/abejanet/internal/api/middleware"
	"github.com/abejanet/abejanet/internal/core/domain"
	"github.com/abejanet/abejanet/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// throttle may be nil when no Redis is configured.
func NewRouter(pool *pgxpool.Pool, authService ports.AuthService, tokens ports.TokenService, throttle handler.LoginThrottle, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("abejanet"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService, throttle)
	profileHandler := handler.NewProfileHandler()
	healthHandler := handler.NewHealthHandler(pool)
	authGuard := middleware.Auth(tokens)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.GET("/", healthHandler.Liveness)
	e.GET("/test-db", healthHandler.TestDB)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Protected routes ---
	adminAPI := e.Group("/api/admin", authGuard, middleware.RequireRole(domain.RoleAdmin))
	adminAPI.GET("/perfil", profileHandler.AdminProfile)

	return e
}
