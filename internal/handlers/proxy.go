package handlers

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	winwinerrors "winwin/internal/errors"
	"winwin/internal/logger"
	"winwin/middleware"
)

// NewBackendProxy forwards requests to the backend unchanged, so browser
// code can call the backend API on this origin.
func NewBackendProxy(baseURL string) (http.Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", winwinerrors.ErrInvalidBackendURL, baseURL)
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if requestID := middleware.GetRequestID(pr.In.Context()); requestID != "" {
				pr.Out.Header.Set(middleware.RequestIDHeader, requestID)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.HTTPError(r.Method, r.URL.Path, http.StatusBadGateway, err).
				Str("request_id", middleware.GetRequestID(r.Context())).
				Msg("backend proxy failed")
			writeJSONError(w, r, http.StatusBadGateway, winwinerrors.ErrBackendUnavailable)
		},
	}
	return proxy, nil
}
