package ports

import (
	"context"

	"github.com/rentwheels/marketplace/internal/core/domain"
)

// RegisterInput carries a registration request. Role is optional.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	Role      string
	CompanyID string
}

// LoginResult is the token plus the non-secret fields a client session needs.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate verifies a bearer token and resolves the request principal.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	// Profile returns the stored record for an authenticated user.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
