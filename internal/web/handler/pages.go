// Package handler serves the frontend pages and the login form flow.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/client/api"
	"github.com/rentwheels/marketplace/internal/client/session"
	"github.com/rentwheels/marketplace/internal/web/cookies"
	"github.com/rentwheels/marketplace/internal/web/gate"
)

// LoginAPI is the API call the login form needs.
type LoginAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
}

type Options struct {
	LoginPath    string
	CookieSecure bool
	// SessionTTL sets the cookie lifetime. Zero means a browser-session cookie.
	SessionTTL time.Duration
}

type PageHandler struct {
	api  LoginAPI
	opts Options
	log  zerolog.Logger
}

func NewPageHandler(loginAPI LoginAPI, opts Options, log zerolog.Logger) *PageHandler {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	return &PageHandler{api: loginAPI, opts: opts, log: log.With().Str("component", "pages").Logger()}
}

type loginView struct {
	Action   string
	Redirect string
	Username string
	Error    string
}

type pageView struct {
	Title     string
	User      *cookies.Identity
	LoginPath string
}

func (h *PageHandler) cookieOptions() cookies.Options {
	return cookies.Options{Secure: h.opts.CookieSecure, MaxAge: h.opts.SessionTTL}
}

// LoginForm renders GET /login.
func (h *PageHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", loginView{
		Action:   h.opts.LoginPath,
		Redirect: gate.SafeRedirect(c.QueryParam("redirect"), "/"),
	})
}

// Login handles POST /login: it calls the API, writes the session cookies
// and sends the browser back to where it came from.
func (h *PageHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	target := gate.SafeRedirect(c.FormValue("redirect"), "/")

	fail := func(status int, msg string) error {
		return c.Render(status, "login", loginView{
			Action:   h.opts.LoginPath,
			Redirect: target,
			Username: username,
			Error:    msg,
		})
	}

	if username == "" || password == "" {
		return fail(http.StatusBadRequest, "username and password are required")
	}

	resp, err := h.api.Login(c.Request().Context(), api.LoginRequest{Username: username, Password: password})
	if err != nil {
		if api.IsUnauthorized(err) {
			return fail(http.StatusUnauthorized, "invalid credentials")
		}
		h.log.Error().Err(err).Msg("login request failed")
		return fail(http.StatusBadGateway, "sign in is unavailable, try again later")
	}

	sess, err := session.FromLoginResponse(resp)
	if err != nil {
		h.log.Error().Err(err).Msg("login response rejected")
		return fail(http.StatusBadGateway, "sign in is unavailable, try again later")
	}

	id := cookies.Identity{
		UserID:    sess.UserID,
		Username:  sess.Username,
		Role:      sess.Role,
		Email:     sess.Email,
		CompanyID: sess.CompanyID,
	}
	if err := cookies.Write(c, id, sess.Token, h.cookieOptions()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout handles POST /logout.
func (h *PageHandler) Logout(c echo.Context) error {
	cookies.Clear(c, h.cookieOptions())
	return c.Redirect(http.StatusSeeOther, h.opts.LoginPath)
}

// Home is public and shows who is signed in, if anyone.
func (h *PageHandler) Home(c echo.Context) error {
	view := pageView{Title: "Rental marketplace", LoginPath: h.opts.LoginPath}
	if id, _, err := cookies.Read(c); err == nil {
		view.User = id
	} else if !errors.Is(err, cookies.ErrNoSession) {
		return err
	}
	return c.Render(http.StatusOK, "page", view)
}

// Area renders a protected landing page. The route gate runs first.
func (h *PageHandler) Area(title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, _ := gate.IdentityFrom(c)
		return c.Render(http.StatusOK, "page", pageView{Title: title, User: id, LoginPath: h.opts.LoginPath})
	}
}
