package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rentwheels/marketplace/docs"
	"github.com/rentwheels/marketplace/internal/api/handler"
	"github.com/rentwheels/marketplace/internal/api/metrics"
	"github.com/rentwheels/marketplace/internal/api/middleware"
	"github.com/rentwheels/marketplace/internal/core/ports"
)

// AccessRoles are the allow-lists of the role-gated areas.
type AccessRoles struct {
	Customer []string
	Company  []string
	Admin    []string
}

// Deps is everything the router needs. Registry and Pingers are optional.
type Deps struct {
	AuthService ports.AuthService
	Access      AccessRoles
	Log         zerolog.Logger
	Registry    *prometheus.Registry
	Pingers     map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "marketplace",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	gate := middleware.NewGate(d.AuthService, d.Log, m)
	authHandler := handler.NewAuthHandler(d.AuthService, m)
	accountHandler := handler.NewAccountHandler(d.AuthService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	v1 := e.Group("/api/v1")
	v1.GET("/me", accountHandler.Me, gate.Authenticate())
	v1.GET("/customer/dashboard", accountHandler.Dashboard("customer"), gate.Protect(d.Access.Customer...)...)
	v1.GET("/company/dashboard", accountHandler.Dashboard("company"), gate.Protect(d.Access.Company...)...)
	v1.GET("/admin/dashboard", accountHandler.Dashboard("admin"), gate.Protect(d.Access.Admin...)...)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Pingers)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
