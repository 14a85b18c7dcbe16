package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/photoevents/photo-api/internal/api/middleware"
)

// identity extracts the caller injected by the Auth middleware. Both values
// are required; their absence means the route was mounted without Auth.
func identity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
