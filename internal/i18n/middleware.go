package i18n

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware attaches a translation Context to every request and routes
// prefixed paths to the same handlers as their unprefixed form.
func Middleware(catalog *Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc := NewContext(catalog, r.URL.Path)
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				rctx.RoutePath = tc.RoutePath()
			}
			w.Header().Set("Content-Language", tc.HTMLLang())
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), tc)))
		})
	}
}
