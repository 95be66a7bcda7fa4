package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"

	"winwin/internal/logger"
)

// Logger logs HTTP requests with timing information using zerolog.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		durationMs := float64(duration.Microseconds()) / 1000
		var event *logger.Event
		if wrapped.statusCode >= http.StatusInternalServerError {
			event = logger.HTTPError(r.Method, r.URL.Path, wrapped.statusCode, nil).Float64("duration_ms", durationMs)
		} else {
			event = logger.HTTPEvent(r.Method, r.URL.Path, wrapped.statusCode, durationMs)
		}
		event.
			Str("request_id", GetRequestID(r.Context())).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Int("bytes", wrapped.bytes).
			Msg("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Recoverer recovers from panics, reports them to Sentry when a client is
// configured and returns a 500 error.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			requestID := GetRequestID(r.Context())
			logger.PanicEvent(recovered, string(debug.Stack())).
				Str("request_id", requestID).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Panic recovered")
			reportPanic(r, recovered, requestID)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

func reportPanic(r *http.Request, recovered interface{}, requestID string) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetTag("request_id", requestID)
		if err, ok := recovered.(error); ok {
			hub.CaptureException(err)
			return
		}
		hub.CaptureException(fmt.Errorf("panic: %v", recovered))
	})
}
