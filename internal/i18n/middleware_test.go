package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"winwin/internal/i18n"
)

func TestMiddleware_RoutesPrefixedPaths(t *testing.T) {
	router := chi.NewRouter()
	router.Use(i18n.Middleware(testCatalog()))
	router.Get("/training", func(w http.ResponseWriter, r *http.Request) {
		tc := i18n.FromContext(r.Context())
		_, _ = w.Write([]byte(string(tc.Language()) + ":" + tc.T("home")))
	})

	tests := []struct {
		path     string
		status   int
		body     string
		language string
	}{
		{"/training", http.StatusOK, "en:Home", "en"},
		{"/fr/training", http.StatusOK, "fr:Accueil", "fr"},
		{"/ar/training", http.StatusOK, "ar:الرئيسية", "ar"},
		{"/en/training", http.StatusOK, "en:Home", "en"},
		{"/fr/unknown", http.StatusNotFound, "", "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.language, rec.Header().Get("Content-Language"))
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestMiddleware_PrefixedRoot(t *testing.T) {
	router := chi.NewRouter()
	router.Use(i18n.Middleware(testCatalog()))
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(i18n.FromContext(r.Context()).Dir()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ar", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rtl", rec.Body.String())
}
