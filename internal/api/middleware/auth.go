package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/pkg/token"
)

// Context keys set by Auth and OptionalAuth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRoles    = "roles"
	CtxClaims   = "claims"
)

// TokenValidator is satisfied by *token.Manager.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
func Auth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			raw, ok := bearer(authHeader)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			if err := setClaims(c, v, raw); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			return next(c)
		}
	}
}

// OptionalAuth injects claims when a valid bearer token is present and lets
// anonymous or badly authenticated requests through untouched.
func OptionalAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearer(c.Request().Header.Get("Authorization")); ok {
				_ = setClaims(c, v, raw)
			}
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c echo.Context, v TokenValidator, raw string) error {
	claims, err := v.Validate(raw)
	if err != nil {
		return err
	}
	id, err := claims.SubjectID()
	if err != nil {
		return err
	}

	c.Set(CtxUserID, id)
	c.Set(CtxUsername, claims.Name)
	c.Set(CtxRoles, claims.Roles)
	c.Set(CtxClaims, claims)
	return nil
}
