package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders every
// failure as {"error": "<message>"}. Unexpected errors are logged and hidden
// behind a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// sentinels pairs domain errors with the status and message sent to clients.
// Order matters: the first match wins.
var sentinels = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not found or access denied"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrRoleExists, http.StatusConflict, "role already exists"},
	{domain.ErrCatalogEntryExists, http.StatusConflict, "entry already exists"},
	{domain.ErrRoleAlreadyAssigned, http.StatusBadRequest, "user already has this role"},
	{domain.ErrInvalidReference, http.StatusBadRequest, "referenced record does not exist"},
	{domain.ErrPhotoAttached, http.StatusConflict, "photo already attached to publication"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Validation messages describe the caller's own input and are safe to echo.
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest, err.Error()
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.code, s.msg
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
