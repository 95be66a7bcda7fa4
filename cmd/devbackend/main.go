// Command devbackend serves an in-memory stand-in for the content REST API
// so the site can be run and exercised locally.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"winwin/internal/logger"
	"winwin/middleware"
)

type devConfig struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"debug"`
	AdminUsername      string        `env:"DEV_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword      string        `env:"DEV_ADMIN_PASSWORD" envDefault:"admin"`
	TokenSecret        string        `env:"DEV_TOKEN_SECRET" envDefault:"winwin-dev-secret"`
	TokenTTL           time.Duration `env:"DEV_TOKEN_TTL" envDefault:"8h"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func newRouter(cfg devConfig, st *store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(corsCfg))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	registerRoutes(r, &api{
		store:  st,
		issuer: newIssuer(cfg.AdminUsername, cfg.AdminPassword, cfg.TokenSecret, cfg.TokenTTL),
	})
	return r
}

func main() {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[devConfig]()
	if err != nil {
		logger.Init("info")
		logger.Get().Fatal().Err(err).Msg("Failed to parse environment")
	}

	logger.Init(cfg.LogLevel)
	log := logger.Get()

	languages := seedLanguages()
	st := newStore(languages, seedContent(languages))

	log.Info().
		Str("backend_mode", "memory").
		Str("admin_username", cfg.AdminUsername).
		Msg("Using in-memory content store")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, st),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
}
