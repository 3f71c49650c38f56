// @title                       Rental Marketplace Auth API
// @version                     1.0
// @description                 Registration, login and role-gated access for the car rental marketplace.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rentwheels/marketplace/internal/api"
	"github.com/rentwheels/marketplace/internal/api/handler"
	"github.com/rentwheels/marketplace/internal/core/service"
	"github.com/rentwheels/marketplace/internal/infrastructure/db/mongo"
	"github.com/rentwheels/marketplace/internal/pkg/config"
	"github.com/rentwheels/marketplace/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to the defaults.
		log := logger.New(logger.Options{Service: "api"})
		log.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "api"))
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Bool("trust_token_claims", cfg.Auth.TrustTokenClaims).
		Msg("starting api")

	roles, err := cfg.RoleSet()
	if err != nil {
		log.Fatal().Err(err).Msg("role configuration")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongo")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect mongo")
		}
	}()

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, service.WithIssuer(cfg.Auth.Issuer))
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	authService := service.NewAuthService(
		service.NewCredentialStore(users, cfg.Auth.BcryptCost),
		tokens,
		service.AuthOptions{
			Roles:            roles,
			CompanyRole:      cfg.Auth.CompanyRole,
			TrustTokenClaims: cfg.Auth.TrustTokenClaims,
		},
		log,
	)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Access: api.AccessRoles{
			Customer: cfg.Access.CustomerRoles,
			Company:  cfg.Access.CompanyRoles,
			Admin:    cfg.Access.AdminRoles,
		},
		Log:      log,
		Registry: prometheus.NewRegistry(),
		Pingers:  map[string]handler.Pinger{"mongo": mongo.NewPinger(db)},
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("api stopped")
}
