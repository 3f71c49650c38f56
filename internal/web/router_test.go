package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/client/api"
)

type stubLoginAPI struct {
	users map[string]api.LoginResponse
	err   error
}

func (s *stubLoginAPI) Login(_ context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	resp, ok := s.users[req.Username+":"+req.Password]
	if !ok {
		return nil, &api.APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	return &resp, nil
}

func newTestWeb(loginAPI *stubLoginAPI) http.Handler {
	return NewRouter(Deps{
		LoginAPI: loginAPI,
		Access: AccessRoles{
			Customer: []string{"customer", "admin"},
			Company:  []string{"rental-company", "admin"},
			Admin:    []string{"admin"},
		},
		Log: zerolog.Nop(),
	})
}

func aliceAPI() *stubLoginAPI {
	return &stubLoginAPI{users: map[string]api.LoginResponse{
		"alice:pw": {Token: "tok-alice", User: api.User{ID: "u1", Username: "alice", Role: "customer"}},
	}}
}

func get(h http.Handler, target string, cks []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cks {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWeb_LoginFlow(t *testing.T) {
	h := newTestWeb(aliceAPI())

	rec := get(h, "/customer", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	redirect := loc.Query().Get("redirect")
	if loc.Path != "/login" || redirect != "/customer" {
		t.Fatalf("unexpected location %q", loc.String())
	}

	rec = get(h, loc.String(), nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="/customer"`) {
		t.Fatalf("login page should carry the redirect: %d %s", rec.Code, rec.Body.String())
	}

	rec = postForm(h, "/login", url.Values{"username": {"alice"}, "password": {"pw"}, "redirect": {redirect}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/customer" {
		t.Fatalf("expected 303 to /customer, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cks := rec.Result().Cookies()
	if len(cks) != 2 {
		t.Fatalf("expected 2 session cookies, got %d", len(cks))
	}

	rec = get(h, "/customer", cks)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Signed in as alice (customer)") {
		t.Fatalf("customer area: %d %s", rec.Code, rec.Body.String())
	}

	if rec = get(h, "/company", cks); rec.Code != http.StatusFound {
		t.Fatalf("customer must be bounced from /company, got %d", rec.Code)
	}
}

func TestWeb_LoginRejected(t *testing.T) {
	h := newTestWeb(aliceAPI())

	rec := postForm(h, "/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected 401 with message, got %d %s", rec.Code, rec.Body.String())
	}
	if cks := rec.Result().Cookies(); len(cks) != 0 {
		t.Fatalf("rejected login must not set cookies: %v", cks)
	}
}

func TestWeb_LoginIncompleteResponse(t *testing.T) {
	h := newTestWeb(&stubLoginAPI{users: map[string]api.LoginResponse{
		"bob:pw": {Token: "tok", User: api.User{ID: "u2", Username: "bob"}},
	}})

	rec := postForm(h, "/login", url.Values{"username": {"bob"}, "password": {"pw"}})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if cks := rec.Result().Cookies(); len(cks) != 0 {
		t.Fatalf("incomplete response must not set cookies: %v", cks)
	}
}

func TestWeb_LoginIgnoresForeignRedirect(t *testing.T) {
	h := newTestWeb(aliceAPI())

	rec := postForm(h, "/login", url.Values{"username": {"alice"}, "password": {"pw"}, "redirect": {"//evil.example"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestWeb_Logout(t *testing.T) {
	h := newTestWeb(aliceAPI())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Value != "" || ck.MaxAge >= 0 {
			t.Fatalf("cookie %s not expired", ck.Name)
		}
	}
}

func TestWeb_HomeIsPublic(t *testing.T) {
	rec := get(newTestWeb(aliceAPI()), "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sign in") {
		t.Fatalf("home: %d %s", rec.Code, rec.Body.String())
	}
}
