package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/core/domain"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

// AuthOptions configures role handling and gate behaviour.
type AuthOptions struct {
	Roles domain.RoleSet
	// CompanyRole is the role that may carry a company reference.
	CompanyRole string
	// TrustTokenClaims skips the per-request user lookup and takes the role
	// from the token. The default re-fetches the user on every request.
	TrustTokenClaims bool
}

// AuthService implements registration, login and token authentication.
type AuthService struct {
	store  ports.CredentialStore
	tokens ports.TokenService
	opts   AuthOptions
	log    zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, tokens ports.TokenService, opts AuthOptions, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		opts:   opts,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username is required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password is required")
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = s.opts.Roles.Default()
	} else if !s.opts.Roles.Contains(role) {
		return nil, domain.Invalid("role must be one of: %s", strings.Join(s.opts.Roles.Names(), ", "))
	}

	companyID := ""
	if role == s.opts.CompanyRole {
		companyID = strings.TrimSpace(in.CompanyID)
	}

	user, err := s.store.Create(ctx, ports.NewCredential{
		Username:  username,
		Password:  in.Password,
		Email:     in.Email,
		Role:      role,
		CompanyID: companyID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			s.log.Info().Str("username", username).Msg("registration rejected: username taken")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login never reveals whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.store.VerifySecret(nil, password)
		s.log.Debug().Str("username", username).Msg("login failed: unknown user")
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.store.VerifySecret(user, password) {
		s.log.Debug().Str("user_id", user.ID).Msg("login failed: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.ClaimsInput{
		SubjectID: user.ID,
		Username:  user.Username,
		Role:      user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.opts.TrustTokenClaims {
		if !s.opts.Roles.Contains(claims.Role) {
			return nil, fmt.Errorf("%w: role %q is not configured", domain.ErrTokenInvalid, claims.Role)
		}
		return &domain.Principal{
			UserID:   claims.SubjectID,
			Username: claims.Username,
			Role:     claims.Role,
		}, nil
	}

	user, err := s.store.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return domain.PrincipalFromUser(user), nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.FindByID(ctx, userID)
}
