package handlers

import (
	"context"
	"net/http"

	"winwin/internal/logger"
	"winwin/internal/version"
	"winwin/middleware"
)

// ConnectionChecker reports whether the content backend answers.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// StatusResponse describes the service and its backend.
type StatusResponse struct {
	Version          string `json:"version"`
	BackendConnected bool   `json:"backend_connected"`
	BackendError     string `json:"backend_error,omitempty"`
}

// HealthCheck answers liveness probes.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessCheck reports ready only while the backend is reachable.
func ReadinessCheck(checker ConnectionChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		if err := checker.CheckConnection(r.Context()); err != nil {
			logger.HTTPError(r.Method, r.URL.Path, http.StatusServiceUnavailable, err).
				Str("request_id", requestID).
				Msg("readiness check failed")
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		logger.HTTPEvent(r.Method, r.URL.Path, http.StatusOK, 0).
			Str("request_id", requestID).
			Msg("readiness check")
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// Status reports the version and backend connectivity. It always answers 200.
func Status(checker ConnectionChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{Version: version.Version, BackendConnected: true}
		if err := checker.CheckConnection(r.Context()); err != nil {
			response.BackendConnected = false
			response.BackendError = err.Error()
		}
		writeJSON(w, r, http.StatusOK, response)
	}
}

// Version returns build information.
func Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, version.Info())
}
