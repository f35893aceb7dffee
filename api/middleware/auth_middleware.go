package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"photogallery/internal/entity"
	"photogallery/internal/service"

	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

type AuthMiddleware struct {
	Tokens Authenticator
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c.Request())
		if token == "" || m.Tokens == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		user, err := m.Tokens.Authenticate(c.Request().Context(), token)
		if errors.Is(err, service.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
		}
		if err != nil {
			return err
		}
		SetAuthContext(c, user.ID, string(user.Role))
		return next(c)
	}
}

// extractToken accepts both "Bearer <token>" and "Token <token>".
func extractToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") && !strings.EqualFold(parts[0], "Token") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
