package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/rentwheels/marketplace/internal/core/domain"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET": "secret",
		"MONGO_URI":  "mongodb://localhost:27017",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(baseEnv()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "rental_marketplace" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.TrustTokenClaims {
		t.Fatalf("re-verify mode must be the default")
	}
	if len(cfg.Auth.Roles) != 3 || cfg.Auth.Roles[1] != domain.RoleRentalCompany {
		t.Fatalf("unexpected roles: %v", cfg.Auth.Roles)
	}
	if len(cfg.Access.CompanyRoles) != 2 {
		t.Fatalf("unexpected company allow-list: %v", cfg.Access.CompanyRoles)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"JWT_SECRET", "MONGO_URI"} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			delete(env, key)
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestLoad_AlternateRoleSet(t *testing.T) {
	env := baseEnv()
	env["AUTH_ROLES"] = "renter,inspector,admin"
	env["AUTH_DEFAULT_ROLE"] = "renter"
	env["AUTH_COMPANY_ROLE"] = "inspector"
	env["ACCESS_CUSTOMER_ROLES"] = "renter"
	env["ACCESS_COMPANY_ROLES"] = "inspector"
	env["TOKEN_TTL"] = "90m"

	cfg, err := load(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rs, _ := cfg.RoleSet()
	if !rs.Contains("inspector") || rs.Default() != "renter" {
		t.Fatalf("unexpected role set: %v", rs.Names())
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.Auth.TokenTTL)
	}
}

func TestLoad_AllowListOutsideRoleSet(t *testing.T) {
	env := baseEnv()
	env["ACCESS_ADMIN_ROLES"] = "superuser"
	if _, err := load(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadWeb_Defaults(t *testing.T) {
	cfg, err := loadWeb(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LoginPath != "/login" || cfg.APIBaseURL != "http://localhost:8080" || cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
