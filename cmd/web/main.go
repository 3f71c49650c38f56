package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentwheels/marketplace/internal/client/api"
	"github.com/rentwheels/marketplace/internal/pkg/config"
	"github.com/rentwheels/marketplace/internal/web"
	"github.com/rentwheels/marketplace/pkg/logger"
)

func main() {
	cfg, err := config.LoadWeb(context.Background())
	if err != nil {
		log := logger.New(logger.Options{Service: "web"})
		log.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "web"))
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("api", cfg.APIBaseURL).
		Msg("starting web")

	e := web.NewRouter(web.Deps{
		LoginAPI: api.NewClient(cfg.APIBaseURL),
		Access: web.AccessRoles{
			Customer: cfg.Access.CustomerRoles,
			Company:  cfg.Access.CompanyRoles,
			Admin:    cfg.Access.AdminRoles,
		},
		LoginPath:    cfg.LoginPath,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("web stopped")
}
