package handlers

import (
	"net/http"

	"winwin/config"
	"winwin/internal/i18n"
	"winwin/internal/logger"
	"winwin/internal/validation"
	"winwin/middleware"
)

// ConfigResponse holds the public configuration exposed to the frontend.
type ConfigResponse struct {
	DefaultLanguage i18n.Language            `json:"defaultLanguage"`
	Languages       []i18n.SupportedLanguage `json:"languages"`
	FileBaseURL     string                   `json:"fileBaseUrl"`
	UploadMaxBytes  int64                    `json:"uploadMaxBytes"`
	UploadTypes     []string                 `json:"uploadTypes"`
}

// GetConfig returns the application configuration.
func GetConfig(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := ConfigResponse{
			DefaultLanguage: i18n.DefaultLanguage,
			Languages:       i18n.Supported(),
			FileBaseURL:     cfg.Backend.PublicURL,
			UploadMaxBytes:  cfg.UploadMaxBytes,
			UploadTypes:     validation.UploadExtensions,
		}
		writeJSON(w, r, http.StatusOK, resp)

		logger.HTTPEvent(r.Method, r.URL.Path, http.StatusOK, 0).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("config retrieved")
	}
}
