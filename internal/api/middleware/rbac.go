package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentwheels/marketplace/internal/api/metrics"
)

// Require enforces a role allow-list. It must be chained after Authenticate;
// a request reaching it without a principal is rejected as unauthenticated.
func (g *Gate) Require(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				g.m.GateRejected(metrics.ReasonNoPrincipal)
				g.log.Error().Str("path", c.Path()).Msg("role check ran without an authenticated principal")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			if _, ok := allowed[principal.Role]; !ok {
				g.m.GateRejected(metrics.ReasonForbidden)
				g.log.Info().
					Str("user_id", principal.UserID).
					Str("role", principal.Role).
					Str("path", c.Path()).
					Msg("role not allowed")
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Protect is Authenticate followed by Require, in the only valid order.
func (g *Gate) Protect(allowedRoles ...string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.Authenticate(), g.Require(allowedRoles...)}
}
