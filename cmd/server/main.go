package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"

	"winwin/config"
	"winwin/internal/backend"
	"winwin/internal/i18n"
	"winwin/internal/logger"
	"winwin/internal/metrics"
	"winwin/internal/version"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Output:   cfg.LogOutput,
		FilePath: cfg.LogFilePath,
	})
	log := logger.Get()

	log.Info().
		Str("version", version.Version).
		Msg("WIN-WIN Training Hub starting")

	log.Info().
		Str("env", string(cfg.Env)).
		Str("log_level", cfg.LogLevel).
		Str("log_format", cfg.LogFormat).
		Str("backend_url", cfg.Backend.URL).
		Msg("Configuration loaded")

	if cfg.SentryDSN != "" {
		if sentryErr := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: string(cfg.Env),
			Release:     version.Version,
		}); sentryErr != nil {
			log.Warn().Err(sentryErr).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	client, clientErr := backend.NewHTTPClient(backend.Options{
		BaseURL:  cfg.Backend.URL,
		Timeout:  cfg.Backend.Timeout,
		RetryMax: cfg.Backend.RetryMax,
		CacheTTL: cfg.Backend.CacheTTL,
		Observer: recorder.ObserveBackendRequest,
	})
	if clientErr != nil {
		log.Fatal().Err(clientErr).
			Msg("Failed to initialize backend client")
	}

	catalog, catalogErr := i18n.LoadEmbedded()
	if catalogErr != nil {
		log.Fatal().Err(catalogErr).
			Msg("Failed to load translation catalog")
	}

	webFS, fsError := fs.Sub(embeddedWeb, "web")
	if fsError != nil {
		log.Fatal().Err(fsError).
			Msg("Failed to initialize embedded web filesystem")
	}

	router, site, routerErr := buildRouter(routerDeps{
		cfg:       cfg,
		backend:   client,
		catalog:   catalog,
		registry:  registry,
		recorder:  recorder,
		webFS:     webFS,
		cacheSize: client.CacheLen,
	})
	if routerErr != nil {
		log.Fatal().Err(routerErr).
			Msg("Failed to build router")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	client.StartJanitor(ctx, janitorInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	site.Wait()
	stop()

	log.Info().Msg("Server stopped")
}
