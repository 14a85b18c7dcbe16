package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

const msgAccessDenied = "access denied"

// RBAC lets a request through only when the role set by Auth is one of
// allowedRoles. Mount it after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" || !slices.Contains(allowedRoles, role) {
				return echo.NewHTTPError(http.StatusForbidden, msgAccessDenied)
			}
			return next(c)
		}
	}
}
