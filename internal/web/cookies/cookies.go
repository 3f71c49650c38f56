// Package cookies reads and writes the frontend session cookies: "user"
// carries the identity, "token" carries the bearer token and doubles as the
// presence token. Login writes both; logout clears both.
package cookies

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	UserCookie  = "user"
	TokenCookie = "token"
)

// ErrNoSession is returned by Read when the cookies are absent or unusable.
var ErrNoSession = errors.New("no session cookies")

// Identity is the non-secret part of the session kept in the "user" cookie.
type Identity struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

// Options controls cookie attributes.
type Options struct {
	Secure bool
	MaxAge time.Duration
}

// Write sets both session cookies.
func Write(c echo.Context, id Identity, token string, opts Options) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	c.SetCookie(newCookie(UserCookie, base64.RawURLEncoding.EncodeToString(raw), opts))
	c.SetCookie(newCookie(TokenCookie, token, opts))
	return nil
}

// Read returns the identity and token from the request cookies. Missing,
// undecodable or incomplete values all yield ErrNoSession.
func Read(c echo.Context) (*Identity, string, error) {
	tokenCookie, err := c.Cookie(TokenCookie)
	if err != nil || tokenCookie.Value == "" {
		return nil, "", ErrNoSession
	}
	userCookie, err := c.Cookie(UserCookie)
	if err != nil || userCookie.Value == "" {
		return nil, "", ErrNoSession
	}

	raw, err := base64.RawURLEncoding.DecodeString(userCookie.Value)
	if err != nil {
		return nil, "", ErrNoSession
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, "", ErrNoSession
	}
	if id.UserID == "" || id.Username == "" || id.Role == "" {
		return nil, "", ErrNoSession
	}
	return &id, tokenCookie.Value, nil
}

// Clear expires both session cookies.
func Clear(c echo.Context, opts Options) {
	for _, name := range []string{UserCookie, TokenCookie} {
		ck := newCookie(name, "", opts)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.SetCookie(ck)
	}
}

func newCookie(name, value string, opts Options) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.MaxAge > 0 {
		ck.MaxAge = int(opts.MaxAge.Seconds())
	}
	return ck
}
