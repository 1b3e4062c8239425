package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abejanet/abejanet/internal/api/metrics"
	"github.com/abejanet/abejanet/internal/core/domain"
	"github.com/abejanet/abejanet/internal/core/ports"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID = "userId"
	CtxRole   = "rol"
)

// Auth verifies the bearer token and injects the decoded claims into the
// request context. A request with no credential at all is 401; a credential
// that is present but invalid or expired is 403.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenChecksTotal.WithLabelValues("expired").Inc()
				} else {
					metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
				}
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			metrics.TokenChecksTotal.WithLabelValues("ok").Inc()
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}
