package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"winwin/config"
	"winwin/internal/backend"
	"winwin/internal/handlers"
	"winwin/internal/i18n"
	"winwin/internal/locale"
	"winwin/internal/metrics"
	"winwin/internal/session"
	"winwin/middleware"
)

type routerDeps struct {
	cfg       config.Config
	backend   backend.Client
	catalog   *i18n.Catalog
	registry  *prometheus.Registry
	recorder  *metrics.Recorder
	webFS     fs.FS
	cacheSize func() int
}

// buildRouter wires middleware, the JSON API, the metrics endpoint and the
// rendered pages onto a single chi router.
func buildRouter(deps routerDeps) (http.Handler, *handlers.Site, error) {
	cfg := deps.cfg
	recorder := deps.recorder
	if recorder == nil {
		recorder = metrics.NewRecorder(deps.registry)
	}
	cacheSize := deps.cacheSize
	if cacheSize == nil {
		cacheSize = func() int { return 0 }
	}

	assetsFS, err := fs.Sub(deps.webFS, "assets")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedded assets: %w", err)
	}
	renderer, err := handlers.NewRenderer(deps.webFS, cfg.Backend.PublicURL)
	if err != nil {
		return nil, nil, err
	}
	proxy, err := handlers.NewBackendProxy(cfg.Backend.URL)
	if err != nil {
		return nil, nil, err
	}

	catalog := deps.catalog.WithObserver(func(language i18n.Language, _ string, tier i18n.FallbackTier) {
		recorder.ObserveTranslationFallback(string(language), string(tier))
	})

	localeConfig := locale.DefaultConfig()
	localeConfig.CookieName = cfg.Locale.CookieName
	localeConfig.SecureCookie = cfg.Locale.CookieSecure
	resolver := locale.New(localeConfig)

	site := handlers.NewSite(handlers.SiteOptions{
		Backend:        deps.backend,
		Renderer:       renderer,
		Sessions:       session.NewManager(cfg.Admin.CookieName, cfg.Locale.CookieSecure),
		PublicURL:      cfg.Backend.PublicURL,
		UploadMaxBytes: cfg.UploadMaxBytes,
		AnalyticsFailure: func(kind string) {
			recorder.ObserveAnalyticsFailure(kind)
		},
	})

	deps.registry.MustRegister(collectors.NewGoCollector())
	deps.registry.MustRegister(metrics.NewStatusCollector(deps.backend, deps.catalog, cacheSize))

	r := chi.NewRouter()

	// Middleware must be registered before any routes
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(originOf(cfg.Backend.PublicURL)))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(corsConfig(cfg)))
	}
	if cfg.UploadMaxBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.UploadMaxBytes))
	}
	r.Use(resolver.Middleware(func(decision locale.Decision) {
		recorder.ObserveLocaleRedirect(string(decision.Language), string(decision.Source))
	}))
	r.Use(i18n.Middleware(catalog))

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))
	r.Get("/robots.txt", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, deps.webFS, "robots.txt")
	})

	r.Get("/api/health", handlers.HealthCheck)
	r.Get("/api/ready", handlers.ReadinessCheck(deps.backend))
	r.Get("/api/status", handlers.Status(deps.backend))
	r.Get("/api/version", handlers.Version)
	r.Get("/api/config", handlers.GetConfig(cfg))
	r.Get("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}).ServeHTTP)
	handlers.RegisterI18nRoutes(r, catalog, resolver)
	r.Handle("/api/*", proxy)

	handlers.RegisterPublicRoutes(r, site)
	loginLimiter := middleware.RateLimit(middleware.LoginRateLimitConfig(
		cfg.Admin.LoginRateLimit,
		loginWindow(cfg.Admin.LoginRateInterval),
		cfg.TrustProxy,
	))
	handlers.RegisterAdminRoutes(r, site, loginLimiter)

	return r, site, nil
}

func corsConfig(cfg config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORS.AllowedOrigins
	corsCfg.AllowCredentials = cfg.CORS.AllowCredentials
	return corsCfg
}

// originOf reduces a URL to scheme://host, or returns "" when it has no host.
func originOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func loginWindow(interval time.Duration) time.Duration {
	if interval <= 0 {
		return time.Minute
	}
	return interval
}
