package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentwheels/marketplace/internal/core/domain"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

// CredentialStore hashes secrets on creation and compares them on login.
// Persistence and username uniqueness are delegated to the repository.
type CredentialStore struct {
	repo ports.UserRepository
	cost int
	now  func() time.Time
	// decoy is compared against when no user exists, so a miss costs the
	// same as a wrong password.
	decoy []byte
}

// NewCredentialStore wraps repo. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewCredentialStore(repo ports.UserRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	decoy, _ := bcrypt.GenerateFromPassword([]byte("decoy-secret"), cost)
	return &CredentialStore{repo: repo, cost: cost, now: time.Now, decoy: decoy}
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CredentialStore) Create(ctx context.Context, in ports.NewCredential) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username is required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password is required")
	}
	if in.Role == "" {
		return nil, domain.Invalid("role is required")
	}

	// The repository's unique index is authoritative; this lookup only
	// avoids paying for a hash on an obvious duplicate.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         in.Role,
		CompanyID:    in.CompanyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// VerifySecret reports whether rawPassword matches the user's hash. A nil
// user still spends one comparison and returns false.
func (s *CredentialStore) VerifySecret(user *domain.User, rawPassword string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(rawPassword))
		return false
	}
	if user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)) == nil
}
