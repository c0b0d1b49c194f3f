package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/api/middleware"
)

// currentUserID returns the caller id injected by the Auth middleware. Its
// absence means the route was wired without Auth.
func currentUserID(c echo.Context) (uint, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// optionalUserID is currentUserID for routes behind OptionalAuth.
func optionalUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(middleware.CtxUserID).(uint)
	return id, ok && id != 0
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
