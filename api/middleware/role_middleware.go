package middleware

import (
	"net/http"

	"photogallery/internal/entity"

	"github.com/labstack/echo/v4"
)

// RequireRole admits callers holding any of roles. It must run after
// RequireAuth.
func RequireRole(roles ...entity.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			currentRole, ok := RoleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			for _, role := range roles {
				if currentRole == string(role) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
		}
	}
}
