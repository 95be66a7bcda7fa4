package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid or expired token")

// issuer signs and verifies the HS256 tokens handed out by /api/admin/login.
type issuer struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func newIssuer(username, password, secret string, ttl time.Duration) *issuer {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &issuer{username: username, password: password, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login returns a signed token when the credentials match.
func (i *issuer) Login(username, password string) (string, bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(i.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(i.password)) == 1
	if !userOK || !passOK {
		return "", false, nil
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", false, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, true, nil
}

// Verify checks signature and expiry and returns the subject.
func (i *issuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	return claims.Subject, nil
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

type subjectKey struct{}

// requireToken rejects requests without a valid bearer token.
func (i *issuer) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := i.Verify(extractBearerToken(r.Header.Get("Authorization")))
		if err != nil {
			writeError(w, http.StatusUnauthorized, errInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, subject)))
	})
}

// optionalToken lets anonymous requests through but rejects a bad token.
func (i *issuer) optionalToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		i.requireToken(next).ServeHTTP(w, r)
	})
}
