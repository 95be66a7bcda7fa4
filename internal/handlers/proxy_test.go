package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	winwinerrors "winwin/internal/errors"
	"winwin/internal/handlers"
)

func TestBackendProxy_ForwardsRequests(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `","query":"` + r.URL.RawQuery + `","body":"` + string(body) + `"}`))
	}))
	defer upstream.Close()

	proxy, err := handlers.NewBackendProxy(upstream.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login?x=1", strings.NewReader("creds"))
	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/api/admin/login","query":"x=1","body":"creds"}`, rec.Body.String())
}

func TestBackendProxy_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL
	upstream.Close()

	proxy, err := handlers.NewBackendProxy(target)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), winwinerrors.ErrBackendUnavailable.Error())
}

func TestBackendProxy_InvalidURL(t *testing.T) {
	_, err := handlers.NewBackendProxy("backend:8080")
	assert.ErrorIs(t, err, winwinerrors.ErrInvalidBackendURL)
}
