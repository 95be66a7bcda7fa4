package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"winwin/internal/httputil"
	"winwin/internal/logger"
)

// RateLimitConfig limits requests per client IP within a fixed window.
// Methods, when set, restricts limiting to those methods.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	MaxEntries  int
	Methods     []string
	TrustProxy  bool
}

type rateLimiterEntry struct {
	count   int
	resetAt time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	config  RateLimitConfig
	entries map[string]rateLimiterEntry
}

// LoginRateLimitConfig throttles credential submissions.
func LoginRateLimitConfig(maxRequests int, window time.Duration, trustProxy bool) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: maxRequests,
		Window:      window,
		MaxEntries:  10_000,
		Methods:     []string{http.MethodPost},
		TrustProxy:  trustProxy,
	}
}

func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	limiter := &rateLimiter{config: config, entries: make(map[string]rateLimiterEntry)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || shouldSkipRateLimit(r, config) {
				next.ServeHTTP(w, r)
				return
			}
			ip := httputil.ClientIP(r, config.TrustProxy)
			allowed, retryAfter := limiter.allow(time.Now(), ip)
			if !allowed {
				logger.Get().Warn().
					Str("request_id", GetRequestID(r.Context())).
					Str("client_ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func shouldSkipRateLimit(r *http.Request, config RateLimitConfig) bool {
	if len(config.Methods) == 0 {
		return false
	}
	for _, method := range config.Methods {
		if strings.EqualFold(method, r.Method) {
			return false
		}
	}
	return true
}

func (l *rateLimiter) allow(now time.Time, key string) (bool, int) {
	if key == "" {
		return true, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(now)
	entry := l.entries[key]
	if entry.resetAt.IsZero() || now.After(entry.resetAt) {
		entry = rateLimiterEntry{count: 0, resetAt: now.Add(l.config.Window)}
	}
	entry.count++
	l.entries[key] = entry
	if entry.count <= l.config.MaxRequests {
		return true, 0
	}
	retryAfterSeconds := int(entry.resetAt.Sub(now).Seconds())
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	return false, retryAfterSeconds
}

func (l *rateLimiter) prune(now time.Time) {
	for key, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, key)
		}
	}
	if l.config.MaxEntries <= 0 {
		return
	}
	for len(l.entries) > l.config.MaxEntries {
		var oldestKey string
		oldestResetAt := now.Add(365 * 24 * time.Hour)
		for key, entry := range l.entries {
			if entry.resetAt.Before(oldestResetAt) {
				oldestKey = key
				oldestResetAt = entry.resetAt
			}
		}
		if oldestKey == "" {
			break
		}
		delete(l.entries, oldestKey)
	}
}
