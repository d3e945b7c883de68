package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scanbridge/scanbridge/internal/config"
)

// TokenAuth authenticates a request against the per-service API token from
// the services document. The route must carry a :serviceName param; the
// client sends "Authorization: Token <apiToken>".
func TokenAuth(services *config.Services) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token := strings.TrimPrefix(authHeader, "Token ")
			if token == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			svc, err := services.Get(c.Param("serviceName"))
			// An unknown service answers exactly like a bad token so the
			// endpoint does not leak which service names exist.
			if err != nil || subtle.ConstantTimeCompare([]byte(svc.APIToken), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid token")
			}

			return next(c)
		}
	}
}
