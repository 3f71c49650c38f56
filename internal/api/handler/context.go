package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentwheels/marketplace/internal/api/middleware"
	"github.com/rentwheels/marketplace/internal/core/domain"
)

// currentPrincipal returns the identity attached by the access gate. Its
// absence means a protected handler was mounted without the gate.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.Role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
