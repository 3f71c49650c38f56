package ports

import (
	"context"

	"github.com/rentwheels/marketplace/internal/core/domain"
)

// UserRepository defines persistence for user credential records.
// Implementations return domain.ErrUserNotFound and domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
