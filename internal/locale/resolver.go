// Package locale decides, for every page request, whether the URL already
// names a language or must be redirected once to a language-prefixed URL.
package locale

import (
	"net/url"
	"path"
	"strings"
	"time"

	"winwin/internal/i18n"
)

// Action is what the resolver does with a request.
type Action string

const (
	ActionPass     Action = "pass"
	ActionRedirect Action = "redirect"
)

// Source names the input that determined the language.
type Source string

const (
	SourceExcluded Source = "excluded"
	SourcePath     Source = "path"
	SourceCookie   Source = "cookie"
	SourceHeader   Source = "header"
	SourceDefault  Source = "default"
)

// Decision is the outcome of resolving one request. Target is only set for
// redirects and never carries the query string.
type Decision struct {
	Action   Action        `json:"action"`
	Language i18n.Language `json:"language,omitempty"`
	Target   string        `json:"target,omitempty"`
	Source   Source        `json:"source"`
}

// Config controls which paths are skipped and how the preference cookie is written.
type Config struct {
	CookieName         string
	CookieMaxAge       time.Duration
	SecureCookie       bool
	ExcludedPrefixes   []string
	ExcludedPaths      []string
	ExcludedExtensions []string
}

// DefaultCookieName is the preference cookie used when none is configured.
const DefaultCookieName = "winwin_locale"

// DefaultConfig skips the API namespace, static assets and internal endpoints.
func DefaultConfig() Config {
	return Config{
		CookieName:       DefaultCookieName,
		CookieMaxAge:     365 * 24 * time.Hour,
		ExcludedPrefixes: []string{"/api", "/assets", "/static"},
		ExcludedPaths:    []string{"/favicon.ico", "/robots.txt", "/metrics"},
		ExcludedExtensions: []string{
			".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
			".css", ".js", ".map", ".woff", ".woff2", ".ttf", ".txt", ".xml",
		},
	}
}

// Resolver holds the exclusion rules. It has no mutable state.
type Resolver struct {
	config     Config
	extensions map[string]struct{}
}

// New returns a resolver for config, filling in a missing cookie name and age.
func New(config Config) *Resolver {
	if strings.TrimSpace(config.CookieName) == "" {
		config.CookieName = DefaultCookieName
	}
	if config.CookieMaxAge <= 0 {
		config.CookieMaxAge = 365 * 24 * time.Hour
	}
	extensions := make(map[string]struct{}, len(config.ExcludedExtensions))
	for _, ext := range config.ExcludedExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Resolver{config: config, extensions: extensions}
}

// Config returns the effective configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// Excluded reports whether requests for p bypass language resolution.
// Prefixes match whole segments, so /api matches /api and /api/x but not /apiary.
func (r *Resolver) Excluded(p string) bool {
	for _, exact := range r.config.ExcludedPaths {
		if p == exact {
			return true
		}
	}
	for _, prefix := range r.config.ExcludedPrefixes {
		prefix = strings.TrimSuffix(prefix, "/")
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	if ext := path.Ext(p); ext != "" {
		if _, ok := r.extensions[strings.ToLower(ext)]; ok {
			return true
		}
	}
	return false
}

// Resolve decides what to do with a request for p given the raw preference
// cookie value and Accept-Language header. It performs no I/O.
func (r *Resolver) Resolve(p, cookie, acceptLanguage string) Decision {
	return r.resolve(p, p, cookie, acceptLanguage)
}

// ResolveURL is Resolve for a parsed request URL. Exclusions and prefixes are
// matched on the decoded path; the redirect target keeps the escaped path.
func (r *Resolver) ResolveURL(u *url.URL, cookie, acceptLanguage string) Decision {
	return r.resolve(u.Path, u.EscapedPath(), cookie, acceptLanguage)
}

func (r *Resolver) resolve(p, escaped, cookie, acceptLanguage string) Decision {
	if p == "" {
		p = "/"
	}
	if r.Excluded(p) {
		return Decision{Action: ActionPass, Source: SourceExcluded}
	}
	if lang, ok := i18n.LanguagePrefix(p); ok {
		return Decision{Action: ActionPass, Language: lang, Source: SourcePath}
	}

	lang, source := Preferred(cookie, acceptLanguage)
	if lang.IsDefault() {
		return Decision{Action: ActionPass, Language: lang, Source: source}
	}
	return Decision{
		Action:   ActionRedirect,
		Language: lang,
		Target:   i18n.LocalizedPath(escaped, lang),
		Source:   source,
	}
}

// Preferred applies the preference precedence: a supported cookie value,
// then the best supported Accept-Language entry, then the default language.
func Preferred(cookie, acceptLanguage string) (i18n.Language, Source) {
	if lang, ok := i18n.FromCode(strings.TrimSpace(cookie)); ok {
		return lang, SourceCookie
	}
	if lang, ok := i18n.PreferredLanguage(acceptLanguage); ok {
		return lang, SourceHeader
	}
	return i18n.DefaultLanguage, SourceDefault
}
