package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	winwinerrors "winwin/internal/errors"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

const (
	defaultPort             = "3000"
	defaultBackendURL       = "http://localhost:8080"
	defaultBackendTimeout   = 10 * time.Second
	defaultBackendRetryMax  = 2
	defaultCacheTTL         = time.Minute
	defaultLocaleCookieName = "winwin_locale"
	defaultAdminCookieName  = "winwin_admin_token"
	defaultUploadMaxBytes   = int64(50 << 20)
	defaultLoginRateLimit   = 10
)

// Config holds application configuration.
type Config struct {
	Env            Environment
	Port           string
	LogLevel       string
	LogFormat      string
	LogOutput      string
	LogFilePath    string
	CORS           CORSConfig
	Backend        BackendConfig
	Locale         LocaleConfig
	Admin          AdminConfig
	TrustProxy     bool
	UploadMaxBytes int64
	SentryDSN      string
}

// CORSConfig holds CORS-specific configuration.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// BackendConfig describes the content API this server renders from.
type BackendConfig struct {
	URL       string
	PublicURL string
	Timeout   time.Duration
	RetryMax  int
	CacheTTL  time.Duration
}

// LocaleConfig controls the language preference cookie.
type LocaleConfig struct {
	CookieName   string
	CookieSecure bool
}

// AdminConfig controls the admin session cookie and login throttling.
type AdminConfig struct {
	CookieName        string
	LoginRateLimit    int
	LoginRateInterval time.Duration
}

type SettingsFile struct {
	App     AppSettings     `json:"app" toml:"app"`
	Backend BackendSettings `json:"backend" toml:"backend"`
	Locale  LocaleSettings  `json:"locale" toml:"locale"`
	CORS    CORSSettings    `json:"cors" toml:"cors"`
}

type AppSettings struct {
	Env            string          `json:"env" toml:"env"`
	Logging        LoggingSettings `json:"logging" toml:"logging"`
	Port           int             `json:"port" toml:"port"`
	TrustProxy     bool            `json:"trust_proxy" toml:"trust_proxy"`
	UploadMaxBytes int64           `json:"upload_max_bytes" toml:"upload_max_bytes"`
	SentryDSN      string          `json:"sentry_dsn" toml:"sentry_dsn"`
}

type LoggingSettings struct {
	Level    string `json:"level" toml:"level"`
	Format   string `json:"format" toml:"format"`
	Output   string `json:"output" toml:"output"`
	FilePath string `json:"file_path" toml:"file_path"`
}

type BackendSettings struct {
	URL       string `json:"url" toml:"url"`
	PublicURL string `json:"public_url" toml:"public_url"`
	Timeout   string `json:"timeout" toml:"timeout"`
	RetryMax  *int   `json:"retry_max" toml:"retry_max"`
	CacheTTL  string `json:"cache_ttl" toml:"cache_ttl"`
}

type LocaleSettings struct {
	CookieName   string `json:"cookie_name" toml:"cookie_name"`
	CookieSecure bool   `json:"cookie_secure" toml:"cookie_secure"`
}

type CORSSettings struct {
	AllowedOrigins   []string `json:"allowed_origins" toml:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials" toml:"allow_credentials"`
}

// envSettings is the environment-variable view of the configuration.
// Numbers and durations stay strings so invalid values fall back to defaults.
type envSettings struct {
	AppEnv             string `env:"APP_ENV" envDefault:"dev"`
	Port               string `env:"PORT" envDefault:"3000"`
	LogLevel           string `env:"LOG_LEVEL"`
	LogFormat          string `env:"LOG_FORMAT"`
	LogOutput          string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogFilePath        string `env:"LOG_FILE_PATH"`
	BackendURL         string `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	BackendPublicURL   string `env:"BACKEND_PUBLIC_URL"`
	BackendTimeout     string `env:"BACKEND_TIMEOUT"`
	BackendRetryMax    string `env:"BACKEND_RETRY_MAX"`
	CacheTTL           string `env:"CACHE_TTL"`
	LocaleCookieName   string `env:"LOCALE_COOKIE_NAME" envDefault:"winwin_locale"`
	CookieSecure       string `env:"COOKIE_SECURE"`
	AdminCookieName    string `env:"ADMIN_COOKIE_NAME" envDefault:"winwin_admin_token"`
	LoginRateLimit     string `env:"LOGIN_RATE_LIMIT"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
	TrustProxy         string `env:"TRUST_PROXY"`
	UploadMaxBytes     string `env:"UPLOAD_MAX_BYTES"`
	SentryDSN          string `env:"SENTRY_DSN"`
}

// Load reads configuration from a settings file when one exists, otherwise
// from environment variables. A .env file is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()
	settings, settingsPath, settingsErr := loadSettingsFile()
	if settingsErr != nil && !os.IsNotExist(settingsErr) {
		return Config{}, fmt.Errorf("invalid settings file %s: %w", settingsPath, settingsErr)
	}
	if settings != nil {
		cfg := buildConfigFromSettings(*settings)
		applyLoggingEnv(cfg)
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("invalid settings file %s: %w", settingsPath, err)
		}
		return cfg, nil
	}

	vars, err := env.ParseAs[envSettings]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg := buildConfigFromEnv(vars)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func buildConfigFromEnv(vars envSettings) Config {
	envName := parseEnv(vars.AppEnv)
	logLevel := strings.TrimSpace(vars.LogLevel)
	if logLevel == "" {
		logLevel = defaultLogLevel(envName)
	}
	logFormat := strings.TrimSpace(vars.LogFormat)
	if logFormat == "" {
		logFormat = defaultLogFormat(envName)
	}
	backendURL := strings.TrimRight(strings.TrimSpace(vars.BackendURL), "/")
	publicURL := strings.TrimRight(strings.TrimSpace(vars.BackendPublicURL), "/")
	if publicURL == "" {
		publicURL = backendURL
	}
	port := strings.TrimSpace(vars.Port)
	if port == "" {
		port = defaultPort
	}

	return Config{
		Env:         envName,
		Port:        port,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		LogOutput:   vars.LogOutput,
		LogFilePath: vars.LogFilePath,
		CORS:        loadCORSConfig(envName, vars.CORSAllowedOrigins),
		Backend: BackendConfig{
			URL:       backendURL,
			PublicURL: publicURL,
			Timeout:   parseDuration(vars.BackendTimeout, defaultBackendTimeout),
			RetryMax:  parseInt(vars.BackendRetryMax, defaultBackendRetryMax),
			CacheTTL:  parseDuration(vars.CacheTTL, defaultCacheTTL),
		},
		Locale: LocaleConfig{
			CookieName:   nonEmpty(vars.LocaleCookieName, defaultLocaleCookieName),
			CookieSecure: parseBool(vars.CookieSecure, envName == EnvProd),
		},
		Admin: AdminConfig{
			CookieName:        nonEmpty(vars.AdminCookieName, defaultAdminCookieName),
			LoginRateLimit:    parseInt(vars.LoginRateLimit, defaultLoginRateLimit),
			LoginRateInterval: time.Minute,
		},
		TrustProxy:     parseBool(vars.TrustProxy, false),
		UploadMaxBytes: int64(parseInt(vars.UploadMaxBytes, int(defaultUploadMaxBytes))),
		SentryDSN:      strings.TrimSpace(vars.SentryDSN),
	}
}

func loadSettingsFile() (*SettingsFile, string, error) {
	settingsPath := strings.TrimSpace(getEnv("SETTINGS_PATH", ""))
	if settingsPath != "" {
		settings, err := readSettings(settingsPath)
		return settings, settingsPath, err
	}

	envName := strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev")))
	candidates := []string{
		fmt.Sprintf("settings.%s.json", envName),
		fmt.Sprintf("settings.%s.toml", envName),
		"settings.json",
		"settings.toml",
		"/etc/winwin/settings.json",
		"/etc/winwin/settings.toml",
	}
	for _, candidate := range candidates {
		absPath, absErr := filepath.Abs(candidate)
		if absErr != nil {
			continue
		}
		if _, statErr := os.Stat(absPath); statErr != nil {
			continue
		}
		settings, err := readSettings(absPath)
		return settings, absPath, err
	}
	return nil, "", os.ErrNotExist
}

func readSettings(path string) (*SettingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var settings SettingsFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func buildConfigFromSettings(settings SettingsFile) Config {
	envValue := strings.TrimSpace(settings.App.Env)
	if envValue == "" {
		envValue = "dev"
	}
	envName := parseEnv(envValue)
	port := defaultPort
	if settings.App.Port > 0 {
		port = strconv.Itoa(settings.App.Port)
	}
	logLevel := nonEmpty(settings.App.Logging.Level, defaultLogLevel(envName))
	logFormat := nonEmpty(settings.App.Logging.Format, defaultLogFormat(envName))
	logOutput := nonEmpty(settings.App.Logging.Output, "stdout")
	cors := loadCORSConfig(envName, "")
	if len(settings.CORS.AllowedOrigins) > 0 {
		cors.AllowedOrigins = settings.CORS.AllowedOrigins
		cors.AllowCredentials = settings.CORS.AllowCredentials
	}
	backendURL := strings.TrimRight(nonEmpty(settings.Backend.URL, defaultBackendURL), "/")
	retryMax := defaultBackendRetryMax
	if settings.Backend.RetryMax != nil && *settings.Backend.RetryMax >= 0 {
		retryMax = *settings.Backend.RetryMax
	}
	uploadMax := defaultUploadMaxBytes
	if settings.App.UploadMaxBytes > 0 {
		uploadMax = settings.App.UploadMaxBytes
	}
	return Config{
		Env:         envName,
		Port:        port,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		LogOutput:   logOutput,
		LogFilePath: strings.TrimSpace(settings.App.Logging.FilePath),
		CORS:        cors,
		Backend: BackendConfig{
			URL:       backendURL,
			PublicURL: strings.TrimRight(nonEmpty(settings.Backend.PublicURL, backendURL), "/"),
			Timeout:   parseDuration(settings.Backend.Timeout, defaultBackendTimeout),
			RetryMax:  retryMax,
			CacheTTL:  parseDuration(settings.Backend.CacheTTL, defaultCacheTTL),
		},
		Locale: LocaleConfig{
			CookieName:   nonEmpty(settings.Locale.CookieName, defaultLocaleCookieName),
			CookieSecure: settings.Locale.CookieSecure,
		},
		Admin: AdminConfig{
			CookieName:        defaultAdminCookieName,
			LoginRateLimit:    defaultLoginRateLimit,
			LoginRateInterval: time.Minute,
		},
		TrustProxy:     settings.App.TrustProxy,
		UploadMaxBytes: uploadMax,
		SentryDSN:      strings.TrimSpace(settings.App.SentryDSN),
	}
}

func applyLoggingEnv(cfg Config) {
	if strings.TrimSpace(cfg.LogOutput) != "" {
		_ = os.Setenv("LOG_OUTPUT", cfg.LogOutput)
	}
	if strings.TrimSpace(cfg.LogFormat) != "" {
		_ = os.Setenv("LOG_FORMAT", cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.LogFilePath) != "" {
		_ = os.Setenv("LOG_FILE_PATH", cfg.LogFilePath)
	}
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	for _, raw := range []string{c.Backend.URL, c.Backend.PublicURL} {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %q", winwinerrors.ErrInvalidBackendURL, raw)
		}
	}
	return nil
}

// IsDev returns true if the environment is development.
func (c Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsProd returns true if the environment is production.
func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

func parseEnv(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return EnvProd
	default:
		return EnvDev
	}
}

func defaultLogLevel(env Environment) string {
	switch env {
	case EnvProd:
		return "info"
	default:
		return "debug"
	}
}

func defaultLogFormat(env Environment) string {
	switch env {
	case EnvProd:
		return "json"
	default:
		return "console"
	}
}

func loadCORSConfig(env Environment, originsEnv string) CORSConfig {
	if strings.TrimSpace(originsEnv) != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(originsEnv, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		return CORSConfig{
			AllowedOrigins:   origins,
			AllowCredentials: true,
		}
	}
	switch env {
	case EnvProd:
		return CORSConfig{
			AllowedOrigins:   []string{},
			AllowCredentials: true,
		}
	default:
		return CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
			AllowCredentials: true,
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func nonEmpty(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func parseBool(value string, fallback bool) bool {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
