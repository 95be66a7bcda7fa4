package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"winwin/internal/httputil"
	"winwin/internal/i18n"
	"winwin/internal/locale"
	"winwin/internal/logger"
	"winwin/middleware"
)

// MessagesResponse is the dictionary served to client-side scripts.
type MessagesResponse struct {
	Language  i18n.Language     `json:"language"`
	Direction string            `json:"direction"`
	Messages  map[string]string `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterI18nRoutes exposes the translation dictionaries and the language
// switch endpoint.
func RegisterI18nRoutes(router chi.Router, catalog *i18n.Catalog, resolver *locale.Resolver) {
	router.Get("/api/i18n", func(w http.ResponseWriter, r *http.Request) {
		language := requestLanguage(r, resolver)
		writeJSON(w, r, http.StatusOK, MessagesResponse{
			Language:  language,
			Direction: language.Direction(),
			Messages:  catalog.Messages(language),
		})
	})
	router.Get(i18n.SwitchPath, SwitchLanguage(resolver))
}

// requestLanguage picks the lang query parameter, then the preference
// cookie, then Accept-Language, then the default language.
func requestLanguage(r *http.Request, resolver *locale.Resolver) i18n.Language {
	if language, ok := i18n.FromCode(r.URL.Query().Get("lang")); ok {
		return language
	}
	if language, ok := resolver.PreferenceFromRequest(r); ok {
		return language
	}
	if language, ok := i18n.PreferredLanguage(r.Header.Get("Accept-Language")); ok {
		return language
	}
	return i18n.DefaultLanguage
}

// SwitchLanguage stores an explicit language choice and sends the browser
// back to the page it came from in that language. Unsupported choices leave
// the cookie alone and keep the language already in use.
func SwitchLanguage(resolver *locale.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		next := httputil.LocalPath(query.Get("next"), "/")
		route, rawQuery := httputil.SplitQuery(next)
		route = i18n.StripLanguagePrefix(route)

		language, ok := i18n.FromCode(query.Get("lang"))
		if ok {
			http.SetCookie(w, resolver.PreferenceCookie(language))
			logger.Get().Debug().
				Str("event_category", "locale").
				Str("request_id", middleware.GetRequestID(r.Context())).
				Str("language", string(language)).
				Msg("Language preference saved")
		} else {
			language = requestLanguage(r, resolver)
		}

		target := i18n.LocalizedPath(route, language)
		if rawQuery != "" {
			target += "?" + rawQuery
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.HTTPError(r.Method, r.URL.Path, http.StatusInternalServerError, err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
