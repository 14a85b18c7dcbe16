package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/pkg/token"
)

// Context keys set by Auth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

const (
	msgNoToken       = "no token, authorization denied"
	msgInvalidFormat = "invalid token format"
	msgInvalidToken  = "token is not valid"
)

// Auth validates the bearer JWT and injects the caller identity into context.
// It never touches the user store.
func Auth(jwtSecret string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Debug().Str("path", c.Path()).Msg("auth rejected: header absent")
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				log.Debug().Str("path", c.Path()).Msg("auth rejected: malformed header")
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidFormat)
			}

			claims, err := token.Parse(jwtSecret, strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("auth rejected: token not valid")
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}
