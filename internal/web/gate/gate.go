// Package gate is the frontend route gate. It keeps unauthenticated or
// wrongly-roled visitors away from protected pages by redirecting them to
// the login page. The API still enforces access on every call.
package gate

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/web/cookies"
)

const identityKey = "identity"

// Rule protects every path under Prefix. Roles is the allow-list.
type Rule struct {
	Prefix string
	Roles  []string
}

type RouteGate struct {
	rules     []Rule
	loginPath string
	log       zerolog.Logger
}

// New builds a gate. Rules are matched by longest prefix.
func New(rules []Rule, loginPath string, log zerolog.Logger) *RouteGate {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	if loginPath == "" {
		loginPath = "/login"
	}
	return &RouteGate{
		rules:     sorted,
		loginPath: loginPath,
		log:       log.With().Str("component", "route_gate").Logger(),
	}
}

// Match returns the rule governing path.
func (g *RouteGate) Match(path string) (Rule, bool) {
	for _, r := range g.rules {
		if path == r.Prefix || strings.HasPrefix(path, strings.TrimSuffix(r.Prefix, "/")+"/") {
			return r, true
		}
	}
	return Rule{}, false
}

// Middleware runs the gate before the page handler.
func (g *RouteGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule, ok := g.Match(c.Request().URL.Path)
			if !ok {
				return next(c)
			}

			id, _, err := cookies.Read(c)
			if err != nil {
				g.log.Debug().Str("path", c.Request().URL.Path).Msg("no session, redirecting to login")
				return g.redirect(c)
			}
			if !allowed(id.Role, rule.Roles) {
				g.log.Debug().
					Str("path", c.Request().URL.Path).
					Str("role", id.Role).
					Msg("role not allowed, redirecting to login")
				return g.redirect(c)
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// LoginURL is the login page with a redirect back to requestURI.
func (g *RouteGate) LoginURL(requestURI string) string {
	return g.loginPath + "?redirect=" + url.QueryEscape(requestURI)
}

func (g *RouteGate) redirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, g.LoginURL(c.Request().URL.RequestURI()))
}

func allowed(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// IdentityFrom returns the identity the gate attached to c.
func IdentityFrom(c echo.Context) (*cookies.Identity, bool) {
	id, ok := c.Get(identityKey).(*cookies.Identity)
	return id, ok && id != nil
}

// SafeRedirect returns target when it is a local path, otherwise fallback.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
