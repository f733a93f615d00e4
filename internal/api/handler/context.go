package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both subject and role
// must be non-empty (presence proves the middleware ran).
func ctxClaims(c echo.Context) (subject, role string, err error) {
	subject, _ = c.Get("sub").(string)
	role, _ = c.Get("role").(string)
	if subject == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return subject, role, nil
}
