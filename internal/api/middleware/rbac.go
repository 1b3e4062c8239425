package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abejanet/abejanet/internal/core/domain"
)

// RequireRole enforces that the authenticated caller holds one of the
// allowed roles. Runs after Auth; a missing role means Auth never ran.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
