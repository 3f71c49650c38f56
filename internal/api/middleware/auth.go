package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/api/metrics"
	"github.com/rentwheels/marketplace/internal/core/domain"
)

const principalKey = "principal"

type principalCtxKey struct{}

// Authenticator resolves a bearer token to a request principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// Gate is the server-side access gate: Authenticate establishes who the
// caller is, Require checks the caller's role against an allow-list.
type Gate struct {
	authn Authenticator
	log   zerolog.Logger
	m     *metrics.Metrics
}

// NewGate builds a gate. m may be nil.
func NewGate(authn Authenticator, log zerolog.Logger, m *metrics.Metrics) *Gate {
	return &Gate{authn: authn, log: log.With().Str("component", "gate").Logger(), m: m}
}

// Authenticate requires "Authorization: Bearer <token>", verifies it and
// attaches the principal to both the echo context and the request context.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reject := func(reason string, err error) error {
				g.m.GateRejected(reason)
				ev := g.log.Warn().
					Str("reason", reason).
					Str("method", c.Request().Method).
					Str("path", c.Path())
				if err != nil {
					ev = ev.Err(err)
				}
				ev.Msg("request not authenticated")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject(metrics.ReasonNoToken, nil)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject(metrics.ReasonMalformedHeader, nil)
			}

			principal, err := g.authn.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					return reject(metrics.ReasonExpiredToken, err)
				case errors.Is(err, domain.ErrUnauthorized):
					return reject(metrics.ReasonInvalidToken, err)
				default:
					// Store outage while re-verifying: not the caller's fault.
					return err
				}
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal attaches p to the echo context and the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the principal carried by ctx.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p, ok && p != nil
}
