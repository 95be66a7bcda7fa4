// Package session keeps the admin bearer token issued by the backend in an
// HttpOnly cookie.
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the admin token cookie used when none is configured.
const DefaultCookieName = "winwin_admin_token"

// DefaultLifetime bounds the cookie when the token carries no expiry.
const DefaultLifetime = 24 * time.Hour

// Manager reads and writes the admin token cookie.
type Manager struct {
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewManager returns a manager for cookieName.
func NewManager(cookieName string, secure bool) *Manager {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{cookieName: cookieName, secure: secure, now: time.Now}
}

// CookieName returns the admin cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Token returns the request's admin token when present and not known to be
// expired. Tokens whose expiry cannot be read are returned for the backend
// to judge.
func (m *Manager) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return "", false
	}
	if expiresAt, ok := Expiry(token); ok && !m.now().Before(expiresAt) {
		return "", false
	}
	return token, true
}

// Set stores token. The cookie lives until the token's own expiry, or for
// DefaultLifetime when it has none.
func (m *Manager) Set(w http.ResponseWriter, token string) {
	maxAge := DefaultLifetime
	if expiresAt, ok := Expiry(token); ok {
		maxAge = expiresAt.Sub(m.now())
	}
	if maxAge <= 0 {
		m.Clear(w)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the admin cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Expiry reads the exp claim of token without verifying it. JWTs and
// base64-encoded JSON objects are understood.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return time.Time{}, false
		}
		return exp.Time, true
	}
	return base64Expiry(token)
}

func base64Expiry(token string) (time.Time, bool) {
	encodings := []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding}
	for _, encoding := range encodings {
		data, err := encoding.DecodeString(token)
		if err != nil {
			continue
		}
		var payload struct {
			Exp *float64 `json:"exp"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.Exp == nil {
			return time.Time{}, false
		}
		return time.Unix(int64(*payload.Exp), 0), true
	}
	return time.Time{}, false
}
