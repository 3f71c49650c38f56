// Package web assembles the frontend host.
package web

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/rentwheels/marketplace/internal/api/middleware"
	"github.com/rentwheels/marketplace/internal/web/gate"
	"github.com/rentwheels/marketplace/internal/web/handler"
)

// AccessRoles are the allow-lists of the protected pages.
type AccessRoles struct {
	Customer []string
	Company  []string
	Admin    []string
}

type Deps struct {
	LoginAPI     handler.LoginAPI
	Access       AccessRoles
	LoginPath    string
	CookieSecure bool
	SessionTTL   time.Duration
	Log          zerolog.Logger
}

func NewRouter(d Deps) *echo.Echo {
	if d.LoginPath == "" {
		d.LoginPath = "/login"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = handler.NewRenderer()

	routeGate := gate.New([]gate.Rule{
		{Prefix: "/customer", Roles: d.Access.Customer},
		{Prefix: "/company", Roles: d.Access.Company},
		{Prefix: "/admin", Roles: d.Access.Admin},
	}, d.LoginPath, d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(routeGate.Middleware())

	pages := handler.NewPageHandler(d.LoginAPI, handler.Options{
		LoginPath:    d.LoginPath,
		CookieSecure: d.CookieSecure,
		SessionTTL:   d.SessionTTL,
	}, d.Log)

	e.GET("/", pages.Home)
	e.GET(d.LoginPath, pages.LoginForm)
	e.POST(d.LoginPath, pages.Login)
	e.POST("/logout", pages.Logout)

	e.GET("/customer", pages.Area("Customer area"))
	e.GET("/company", pages.Area("Rental company area"))
	e.GET("/admin", pages.Area("Admin area"))

	return e
}
