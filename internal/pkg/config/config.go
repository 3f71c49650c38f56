package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/rentwheels/marketplace/internal/core/domain"
)

// Config is the API server configuration.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Access AccessConfig
	Mongo  MongoConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	Issuer           string        `env:"JWT_ISSUER, default=rental-marketplace"`
	TokenTTL         time.Duration `env:"TOKEN_TTL, default=24h"`
	TrustTokenClaims bool          `env:"AUTH_TRUST_TOKEN_CLAIMS, default=false"`
	BcryptCost       int           `env:"BCRYPT_COST, default=10"`
	DefaultRole      string        `env:"AUTH_DEFAULT_ROLE, default=customer"`
	CompanyRole      string        `env:"AUTH_COMPANY_ROLE, default=rental-company"`
	Roles            []string      `env:"AUTH_ROLES, default=customer,rental-company,admin"`
}

// AccessConfig holds the role allow-lists for each protected area.
type AccessConfig struct {
	CustomerRoles []string `env:"ACCESS_CUSTOMER_ROLES, default=customer,admin"`
	CompanyRoles  []string `env:"ACCESS_COMPANY_ROLES, default=rental-company,admin"`
	AdminRoles    []string `env:"ACCESS_ADMIN_ROLES, default=admin"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=rental_marketplace"`
}

// WebConfig is the frontend host configuration.
type WebConfig struct {
	Port         string `env:"WEB_PORT,      default=3000"`
	Env          string `env:"ENV,           default=development"`
	LogLevel     string `env:"LOG_LEVEL,     default=info"`
	APIBaseURL   string `env:"API_BASE_URL,  default=http://localhost:8080"`
	CookieSecure bool   `env:"COOKIE_SECURE, default=false"`
	LoginPath    string `env:"LOGIN_PATH,    default=/login"`

	// SessionTTL is the cookie lifetime; keep it in line with TOKEN_TTL.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Access AccessConfig
}

// Load reads the API configuration from the process environment. Every
// failure wraps domain.ErrConfiguration and must stop startup.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if _, err := cfg.RoleSet(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RoleSet parses the configured role enumeration and checks that every role
// referenced elsewhere in the configuration belongs to it.
func (c *Config) RoleSet() (domain.RoleSet, error) {
	rs, err := domain.ParseRoleSet(c.Auth.Roles, c.Auth.DefaultRole)
	if err != nil {
		return domain.RoleSet{}, err
	}
	if c.Auth.CompanyRole != "" {
		if err := rs.Require([]string{c.Auth.CompanyRole}); err != nil {
			return domain.RoleSet{}, err
		}
	}
	for _, roles := range [][]string{c.Access.CustomerRoles, c.Access.CompanyRoles, c.Access.AdminRoles} {
		if err := rs.Require(roles); err != nil {
			return domain.RoleSet{}, err
		}
	}
	return rs, nil
}

// LoadWeb reads the frontend host configuration.
func LoadWeb(ctx context.Context) (*WebConfig, error) {
	return loadWeb(ctx, envconfig.OsLookuper())
}

func loadWeb(ctx context.Context, l envconfig.Lookuper) (*WebConfig, error) {
	var cfg WebConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return &cfg, nil
}
