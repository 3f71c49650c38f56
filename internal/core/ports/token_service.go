package ports

import "github.com/rentwheels/marketplace/internal/core/domain"

// ClaimsInput is the identity bound into a newly issued token.
type ClaimsInput struct {
	SubjectID string
	Username  string
	Role      string
}

// TokenService issues and verifies signed, time-limited session tokens.
// Verify returns domain.ErrTokenExpired or domain.ErrTokenInvalid.
type TokenService interface {
	Issue(in ClaimsInput) (string, error)
	Verify(token string) (*domain.Claims, error)
}
