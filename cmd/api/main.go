package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abdofull/LibyaParts/internal/api"
	"github.com/abdofull/LibyaParts/internal/api/metrics"
	"github.com/abdofull/LibyaParts/internal/app"
	"github.com/abdofull/LibyaParts/internal/core/service"
	"github.com/abdofull/LibyaParts/internal/pkg/config"
	"github.com/abdofull/LibyaParts/internal/pkg/token"
	"github.com/abdofull/LibyaParts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       LibyaParts API
// @version                     1.0
// @description                 Auto-parts marketplace: merchants list parts, customers browse and submit part requests.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "libyaparts-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(store.Users, tokens, log)
	partSvc := service.NewPartService(store.Parts, store.Cache, cfg.MaxImageSize, log)
	requestSvc := service.NewRequestService(store.Requests, store.Parts, log)
	adminSvc := service.NewAdminService(store.Users, store.Parts, store.Requests, store.Cache, log)

	e := api.NewRouter(api.Dependencies{
		Log:             log,
		Tokens:          tokens,
		Users:           store.Users,
		Auth:            authSvc,
		Parts:           partSvc,
		Requests:        requestSvc,
		Admin:           adminSvc,
		RequireApproval: cfg.RequireMerchantApproval,
		CORSOrigins:     cfg.Origins(),
		Metrics:         reg,
		ReadinessChecks: store.Checks,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Bool("merchant_approval", cfg.RequireMerchantApproval).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing store")
	}
	log.Info().Msg("stopped")
}
