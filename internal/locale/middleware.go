package locale

import (
	"net/http"

	"winwin/internal/i18n"
	"winwin/internal/logger"
)

// Observer is told about every redirect decision.
type Observer func(Decision)

// Middleware redirects unprefixed page requests to their language-prefixed
// form and persists the chosen language in the preference cookie. Prefixed
// and excluded requests pass through without header or cookie writes.
func (r *Resolver) Middleware(observer Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			cookie := ""
			if c, err := req.Cookie(r.config.CookieName); err == nil {
				cookie = c.Value
			}
			decision := r.ResolveURL(req.URL, cookie, req.Header.Get("Accept-Language"))
			if decision.Action != ActionRedirect {
				next.ServeHTTP(w, req)
				return
			}

			target := decision.Target
			if req.URL.RawQuery != "" {
				target += "?" + req.URL.RawQuery
			}
			http.SetCookie(w, r.PreferenceCookie(decision.Language))
			logger.Get().Debug().
				Str("event_category", "locale").
				Str("path", req.URL.Path).
				Str("target", target).
				Str("language", string(decision.Language)).
				Str("source", string(decision.Source)).
				Msg("Locale redirect")
			if observer != nil {
				observer(decision)
			}
			// Location is written as built; http.Redirect would clean the path.
			w.Header().Set("Location", target)
			w.WriteHeader(http.StatusTemporaryRedirect)
		})
	}
}

// PreferenceCookie builds the cookie that remembers lang for a year.
func (r *Resolver) PreferenceCookie(lang i18n.Language) *http.Cookie {
	return &http.Cookie{
		Name:     r.config.CookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int(r.config.CookieMaxAge.Seconds()),
		Secure:   r.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// PreferenceFromRequest returns the supported language stored in the
// request's preference cookie, if any.
func (r *Resolver) PreferenceFromRequest(req *http.Request) (i18n.Language, bool) {
	c, err := req.Cookie(r.config.CookieName)
	if err != nil {
		return "", false
	}
	return i18n.FromCode(c.Value)
}
