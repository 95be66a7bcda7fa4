package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winwin/config"
	"winwin/internal/handlers"
	"winwin/internal/i18n"
)

func TestGetConfig(t *testing.T) {
	cfg := config.Config{UploadMaxBytes: 1024}
	cfg.Backend.PublicURL = testPublicURL

	rec := httptest.NewRecorder()
	handlers.GetConfig(cfg)(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload handlers.ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, i18n.DefaultLanguage, payload.DefaultLanguage)
	assert.Len(t, payload.Languages, len(i18n.Codes()))
	assert.Equal(t, testPublicURL, payload.FileBaseURL)
	assert.Equal(t, int64(1024), payload.UploadMaxBytes)
	assert.Contains(t, payload.UploadTypes, ".pdf")
}
