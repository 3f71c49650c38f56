package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentwheels/marketplace/internal/core/domain"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

func TestCredentialStore_CreateHashesSecret(t *testing.T) {
	repo := newStubUserRepo()
	store := NewCredentialStore(repo, bcrypt.MinCost)

	user, err := store.Create(context.Background(), ports.NewCredential{
		Username: " ivy ", Password: "hunter2", Role: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Username != "ivy" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	stored := repo.byUsername["ivy"]
	if stored.PasswordHash == "hunter2" {
		t.Fatalf("secret persisted in plaintext")
	}
	if !store.VerifySecret(user, "hunter2") {
		t.Fatalf("expected secret to verify")
	}
	if store.VerifySecret(user, "hunter3") {
		t.Fatalf("wrong secret verified")
	}
}

func TestCredentialStore_CreateRejectsDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	store := NewCredentialStore(repo, bcrypt.MinCost)
	ctx := context.Background()

	in := ports.NewCredential{Username: "jack", Password: "pw", Role: domain.RoleCustomer}
	if _, err := store.Create(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := store.Create(ctx, in); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestCredentialStore_CreateRequiresFields(t *testing.T) {
	store := NewCredentialStore(newStubUserRepo(), bcrypt.MinCost)

	for _, in := range []ports.NewCredential{
		{Password: "pw", Role: domain.RoleCustomer},
		{Username: "kim", Role: domain.RoleCustomer},
		{Username: "kim", Password: "pw"},
	} {
		if _, err := store.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestCredentialStore_VerifySecretEdgeCases(t *testing.T) {
	store := NewCredentialStore(newStubUserRepo(), bcrypt.MinCost)

	if store.VerifySecret(nil, "anything") {
		t.Fatalf("nil user must not verify")
	}
	if store.VerifySecret(&domain.User{}, "") {
		t.Fatalf("empty hash must not verify")
	}
}

func TestNewCredentialStore_CostFallback(t *testing.T) {
	store := NewCredentialStore(newStubUserRepo(), 99)
	if store.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", store.cost)
	}
}
