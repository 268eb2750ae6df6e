package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chronolens/internal/config"
	httpapi "chronolens/internal/http"
	"chronolens/internal/http/handlers"
	"chronolens/internal/imagegen"
	"chronolens/internal/infra"
	"chronolens/internal/infra/credentials"
	"chronolens/internal/infra/geoip"
	"chronolens/internal/providers/gemini"
	"chronolens/internal/resolver"
	"chronolens/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds := credentials.NewStore(cfg.GeminiAPIKey)
	if !creds.Ready() {
		logger.Warn().Msg("api: no GEMINI_API_KEY configured, waiting for a client-supplied key")
	}

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to open geoip database")
	}
	if geoResolver != nil {
		defer geoResolver.Close()
	}

	geminiClient := gemini.NewClient(gemini.Options{
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		Logger:     &logger,
	})

	locationResolver := resolver.New(resolver.Options{
		Client:   geminiClient,
		Fallback: cfg.ResolverFallback,
		Logger:   &logger,
	})
	generator := imagegen.NewClient(geminiClient, &logger)

	sessions := session.NewManager(session.Deps{
		Resolver:  locationResolver,
		Generator: generator,
		Creds:     creds,
		Logger:    logger,
		Timeout:   cfg.WorkflowTimeout,
	}, cfg.SessionTTL)
	sessions.StartSweeper(ctx, time.Minute)

	var hinter geoip.ViewportHinter
	if geoResolver != nil {
		hinter = geoResolver
	}
	app := handlers.NewApp(logger, sessions, creds, hinter, cfg.AppEnv)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api: listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: failed to shutdown server")
	}
	logger.Info().Msg("api: stopped")
}
