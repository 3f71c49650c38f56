package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentwheels/marketplace/internal/core/domain"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

// AccountHandler serves the endpoints behind the access gate.
type AccountHandler struct {
	authService ports.AuthService
}

func NewAccountHandler(authService ports.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

type dashboardResponse struct {
	Message string            `json:"message"`
	Area    string            `json:"area"`
	User    *domain.Principal `json:"user"`
}

// Me returns the stored profile of the caller.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, newUserView(user))
}

// Dashboard returns the landing payload for a role-gated area.
//
// @Summary      Role-gated dashboard
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/{area}/dashboard [get]
func (h *AccountHandler) Dashboard(area string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := currentPrincipal(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dashboardResponse{
			Message: "welcome to the " + area + " dashboard",
			Area:    area,
			User:    p,
		})
	}
}
