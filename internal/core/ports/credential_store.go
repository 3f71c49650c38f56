package ports

import (
	"context"

	"github.com/rentwheels/marketplace/internal/core/domain"
)

// NewCredential carries the raw registration data handed to the store.
// Password is plaintext and must never be persisted as-is.
type NewCredential struct {
	Username  string
	Password  string
	Email     string
	Role      string
	CompanyID string
}

// CredentialStore owns user records and their hashed secrets.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in NewCredential) (*domain.User, error)
	VerifySecret(user *domain.User, rawPassword string) bool
}
