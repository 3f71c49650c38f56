// Package session keeps the client's authenticated session in memory and in
// durable storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/client/api"
	"github.com/rentwheels/marketplace/internal/client/storage"
)

// ErrIncompleteServerResponse is returned by Login when the server answered
// 2xx but left out the token or one of the identity fields.
var ErrIncompleteServerResponse = errors.New("incomplete server response")

// Session is the authenticated identity held by the client.
type Session struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	Token     string `json:"token"`
}

func (s *Session) complete() bool {
	return s.Token != "" && s.UserID != "" && s.Username != "" && s.Role != ""
}

// FromLoginResponse builds a Session, refusing partial data.
func FromLoginResponse(resp *api.LoginResponse) (*Session, error) {
	if resp == nil {
		return nil, ErrIncompleteServerResponse
	}
	s := &Session{
		UserID:    resp.User.ID,
		Username:  resp.User.Username,
		Role:      resp.User.Role,
		Email:     resp.User.Email,
		CompanyID: resp.User.CompanyID,
		Token:     resp.Token,
	}
	if !s.complete() {
		return nil, ErrIncompleteServerResponse
	}
	return s, nil
}

// LoginAPI is the part of the API client the store depends on.
type LoginAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
}

type Store struct {
	api     LoginAPI
	storage storage.SessionStorage
	log     zerolog.Logger

	mu      sync.RWMutex
	current *Session
	loading bool
}

// NewStore returns an unauthenticated store. Call Init to rehydrate the
// persisted session.
func NewStore(loginAPI LoginAPI, st storage.SessionStorage, log zerolog.Logger) *Store {
	return &Store{
		api:     loginAPI,
		storage: st,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Init rehydrates the persisted session. A stored value that cannot be used
// is discarded and the store starts unauthenticated.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	data, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("load persisted session")
		}
		return
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.complete() {
		s.log.Warn().Err(err).Msg("discarding unusable persisted session")
		if err := s.storage.Clear(ctx); err != nil {
			s.log.Warn().Err(err).Msg("clear persisted session")
		}
		return
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
}

// Login authenticates against the API, persists the session and then makes
// it current.
func (s *Store) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := s.api.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	sess, err := FromLoginResponse(resp)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	cp := *sess
	return &cp, nil
}

// Logout drops the session from memory and storage. Storage failures are
// logged only.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clear persisted session")
	}
}

// Current returns a copy of the active session.
func (s *Store) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	cp := *s.current
	return &cp, true
}

// Token returns the bearer token of the active session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Loading is true only while Init is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
