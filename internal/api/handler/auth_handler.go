package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentwheels/marketplace/internal/api/metrics"
	"github.com/rentwheels/marketplace/internal/core/domain"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Metrics
}

// NewAuthHandler builds the register/login endpoints. m may be nil.
func NewAuthHandler(authService ports.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userView is the non-secret user shape returned to clients.
type userView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Email,
		CompanyID: u.CompanyID,
	}
}

type registerResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.Registration("validation")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.Registration("validation")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Role:      req.Role,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			h.metrics.Registration("username_taken")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "username taken"})
		case errors.Is(err, domain.ErrValidation):
			h.metrics.Registration("validation")
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		h.metrics.Registration("error")
		return err
	}

	h.metrics.Registration("success")
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered",
		User:    newUserView(user),
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.Login("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		h.metrics.Login("error")
		return err
	}

	h.metrics.Login("success")
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, User: newUserView(res.User)})
}
